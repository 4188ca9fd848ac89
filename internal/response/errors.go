package response

// ErrCode is a typed error code enum for consistent API error identification.
// Clients branch on the code; the message is a display default in Hebrew.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrIdentityRequired   ErrCode = "IDENTITY_REQUIRED"

	// Authorization
	ErrForbidden      ErrCode = "FORBIDDEN"
	ErrRegisteredOnly ErrCode = "REGISTERED_ONLY"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"

	// Exam lifecycle
	ErrAttemptComplete ErrCode = "ATTEMPT_COMPLETE"
	ErrDuplicateAnswer ErrCode = "DUPLICATE_ANSWER"
	ErrWrongSection    ErrCode = "WRONG_SECTION"

	// Practice lifecycle
	ErrSessionFinished ErrCode = "SESSION_FINISHED"
	ErrTypeMismatch    ErrCode = "TYPE_MISMATCH"
	ErrPracticeLimit   ErrCode = "PRACTICE_LIMIT_REACHED"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// Authentication
	case ErrInvalidCredentials:
		return "אימייל או סיסמה שגויים."
	case ErrEmailTaken:
		return "כתובת האימייל כבר רשומה במערכת."
	case ErrTokenRequired:
		return "נדרש אסימון הזדהות."
	case ErrTokenInvalid:
		return "אסימון ההזדהות אינו תקין."
	case ErrIdentityRequired:
		return "נדרשת הזדהות כמשתמש רשום או כאורח."

	// Authorization
	case ErrForbidden:
		return "אין לך הרשאה לגשת למשאב זה."
	case ErrRegisteredOnly:
		return "פעולה זו זמינה למשתמשים רשומים בלבד."

	// Validation
	case ErrValidation:
		return "האימות נכשל. בדקו את הנתונים שהוזנו."
	case ErrInvalidID:
		return "פורמט מזהה לא תקין."
	case ErrInvalidPayload:
		return "גוף הבקשה אינו תקין."

	// Resources
	case ErrNotFound:
		return "המשאב המבוקש לא נמצא."

	// Exam lifecycle
	case ErrAttemptComplete:
		return "המבחן הסתיים ואינו פתוח לשינויים."
	case ErrDuplicateAnswer:
		return "כבר נרשמה תשובה לשאלה זו בפרק הנוכחי."
	case ErrWrongSection:
		return "השאלה אינה שייכת לפרק הפעיל."

	// Practice lifecycle
	case ErrSessionFinished:
		return "אימון זה כבר הסתיים."
	case ErrTypeMismatch:
		return "השאלה אינה מסוג האימון הנוכחי."
	case ErrPracticeLimit:
		return "הגעתם למכסת האימונים היומית. הירשמו כדי להמשיך להתאמן."

	// Rate limiting
	case ErrRateLimitExceeded:
		return "יותר מדי בקשות. נסו שוב מאוחר יותר."

	// Server
	case ErrInternal:
		return "אירעה שגיאת שרת פנימית."
	default:
		return "אירעה שגיאה בלתי צפויה."
	}
}
