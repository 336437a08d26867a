package i18n

import "errors"

var (
	// ErrInvalidCatalog indicates the YAML catalog could not be parsed
	ErrInvalidCatalog = errors.New("i18n: invalid catalog")

	// ErrEmptyCatalog indicates the catalog contains no languages
	ErrEmptyCatalog = errors.New("i18n: empty catalog")
)
