package payload

import "errors"

var (
	ErrMalformedJSON  = errors.New("payload: malformed nested JSON")
	ErrTrailingData   = errors.New("payload: trailing data after JSON value")
	ErrNotAnObject    = errors.New("payload: JSON value is not an object")
	ErrNoLocKey       = errors.New("payload: localization object has no locKey")
	ErrInvalidLocData = errors.New("payload: locData is not a JSON array")
	ErrUnresolved     = errors.New("payload: string resource not resolved")
)
