package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Upstream portal ───────────────────────────────────────────────
	ErrAuthFailed   ErrCode = "AUTH_FAILED"
	ErrScrapeFailed ErrCode = "SCRAPE_FAILED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrMalformedTimetable ErrCode = "MALFORMED_TIMETABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrAuthFailed:
		return "Portal authentication failed. Check the SRN and password."
	case ErrScrapeFailed:
		return "Could not fetch the timetable from the portal."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidDate:
		return "Invalid start date format; use YYYY-MM-DD."
	case ErrNotFound:
		return "Timetable not found."
	case ErrMalformedTimetable:
		return "The timetable data is malformed and could not be processed."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
