package journey

import "errors"

var (
	// ErrDataFormat indicates a malformed episode or chat record (bad date, missing field)
	ErrDataFormat = errors.New("journey: malformed data")

	// ErrNotFound indicates a missing episode or decision document
	ErrNotFound = errors.New("journey: not found")

	// ErrLoad indicates a decision document that exists but cannot be decoded
	ErrLoad = errors.New("journey: load failed")
)
