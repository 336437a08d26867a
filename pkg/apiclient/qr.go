package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Artifact is the QR record the server keeps per account.
type Artifact struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Code        string `json:"qr_code"`
	CreatedAt   string `json:"created_at"`
	LastUpdated string `json:"last_updated"`
}

type currentResponse struct {
	QR Artifact `json:"qr_code"`
}

type refreshResponse struct {
	Code string `json:"qr_code"`
}

// QRClient calls the QR artifact endpoints. All calls require a bearer
// token; the server authorizes every request itself.
type QRClient struct {
	client *Client
}

// NewQRClient creates a QRClient on top of the shared transport.
func NewQRClient(client *Client) *QRClient {
	return &QRClient{client: client}
}

// Current fetches the account's current QR artifact. A 404 means the account
// has none yet and surfaces as ErrArtifactNotFound. Transport failures are
// retried a few times since the call is read-only; HTTP errors are not.
func (q *QRClient) Current(ctx context.Context, bearer string) (*Artifact, error) {
	var artifact *Artifact

	operation := func() error {
		var ok currentResponse
		resp, err := q.client.R(ctx).
			SetAuthToken(bearer).
			SetResult(&ok).
			Get("/api/qr/current")
		if err != nil {
			return fmt.Errorf("apiclient: current QR request: %w", err)
		}
		if resp.StatusCode() == http.StatusNotFound {
			return backoff.Permanent(ErrArtifactNotFound)
		}
		if resp.IsError() {
			return backoff.Permanent(errorFromResponse(resp))
		}
		artifact = &ok.QR
		return nil
	}

	if err := backoff.Retry(operation, pollBackOff(ctx)); err != nil {
		return nil, err
	}
	return artifact, nil
}

// Refresh asks the server to rotate the artifact and returns the new code.
// The call mutates server state, so it is never retried.
func (q *QRClient) Refresh(ctx context.Context, bearer string) (string, error) {
	var ok refreshResponse
	resp, err := q.client.R(ctx).
		SetAuthToken(bearer).
		SetResult(&ok).
		Put("/api/qr/refresh")
	if err != nil {
		return "", fmt.Errorf("apiclient: refresh QR request: %w", err)
	}
	if resp.IsError() {
		return "", errorFromResponse(resp)
	}
	return ok.Code, nil
}

func pollBackOff(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	return backoff.WithContext(backoff.WithMaxRetries(policy, 2), ctx)
}
