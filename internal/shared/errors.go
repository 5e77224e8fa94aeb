package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrDatabase       = fmt.Errorf("database error")
	ErrItemNotFound   = fmt.Errorf("item not found")
	ErrImportNotFound = fmt.Errorf("import job not found")

	// Gateway errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported format")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidStatus   = fmt.Errorf("invalid status")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
