package media

import "errors"

var (
	ErrInvalidURL        = errors.New("media: invalid url")
	ErrUnsupportedScheme = errors.New("media: unsupported url scheme")
	ErrFetchFailed       = errors.New("media: fetch failed")
	ErrUnexpectedStatus  = errors.New("media: unexpected response status")
	ErrTooLarge          = errors.New("media: image exceeds size limit")
	ErrNotAnImage        = errors.New("media: response is not an image")
)
