package presenter

import "errors"

var (
	ErrInvalidLED       = errors.New("presenter: led color needs four ARGB components")
	ErrPriorityRange    = errors.New("presenter: priority out of range")
	ErrVisibilityRange  = errors.New("presenter: visibility out of range")
	ErrNotANumber       = errors.New("presenter: value is not a number")
	ErrInvalidActions   = errors.New("presenter: actions must be a JSON array")
	ErrInvalidIconColor = errors.New("presenter: icon color must be #RRGGBB or #AARRGGBB")
)
