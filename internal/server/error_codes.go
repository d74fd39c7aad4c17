package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument      = 1000
	ErrCodeInvalidJSON          = 1001
	ErrCodeRequestTooLarge      = 1002
	ErrCodeInvalidID            = 1003
	ErrCodeInvalidKind          = 1004
	ErrCodeMissingRequired      = 1005
	ErrCodeUnsupportedMediaType = 1006

	// Domain state (2xxx)
	ErrCodeObjectNotFound = 2001
	ErrCodeMediaNotFound  = 2002

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeObjectNotFound
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
