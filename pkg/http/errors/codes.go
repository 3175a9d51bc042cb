package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeMissingField     = "missing_field"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeUserNotFound  = "user_not_found"
	ErrCodeAlreadyExists = "already_exists"

	// Identity errors
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeSyncFailed   = "sync_failed"
	ErrCodeCreateFailed = "user_creation_failed"

	// Content errors
	ErrCodeDeckAssemblyFailed   = "deck_assembly_failed"
	ErrCodeQuestionCreateFailed = "question_creation_failed"
	ErrCodeReactionFailed       = "reaction_failed"
	ErrCodeRecommendationFailed = "recommendation_failed"
	ErrCodeGenerationFailed     = "generation_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
