package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNoToken indicates a successful auth response without a token
	ErrNoToken = errors.New("apiclient: no token received")

	// ErrArtifactNotFound indicates the account has no QR artifact yet
	ErrArtifactNotFound = errors.New("apiclient: no QR artifact")
)

// RemoteError is a non-2xx response from the remote API.
type RemoteError struct {
	StatusCode int
	Message    string // server-provided, empty when the body had none
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: remote error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apiclient: remote error %d", e.StatusCode)
}

// errorBody is the shape error responses use; servers differ on which of the
// two fields they fill.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorFromResponse(resp *resty.Response) error {
	remote := &RemoteError{StatusCode: resp.StatusCode()}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			remote.Message = body.Message
		case body.Error != "":
			remote.Message = body.Error
		}
	}

	return remote
}
