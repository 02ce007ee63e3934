package resources

import "errors"

var (
	ErrNilAdapter        = errors.New("resources: adapter is nil")
	ErrUnsupportedFormat = errors.New("resources: unsupported file format")
	ErrFailedToReadFile  = errors.New("resources: failed to read file")
	ErrFailedToParseFile = errors.New("resources: failed to parse file")
	ErrFailedToParseJSON = errors.New("resources: failed to parse JSON content")
	ErrFailedToParseYAML = errors.New("resources: failed to parse YAML content")
	ErrInvalidStructure  = errors.New("resources: expected a map of languages to string tables")
	ErrLoadingCancelled  = errors.New("resources: loading cancelled")
	ErrMissingArgument   = errors.New("resources: not enough format arguments")
	ErrInvalidFormatVerb = errors.New("resources: invalid format verb")
	ErrResourceNotFound  = errors.New("resources: string resource not found")
)
