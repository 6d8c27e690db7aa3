package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Store errors
	ErrStoreNotFound = fmt.Errorf("store not found")
	ErrSchemaFailed  = fmt.Errorf("schema application failed")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidTimestamp = fmt.Errorf("invalid timestamp")
)
