package account

import "fmt"

// ErrorCode is a domain error code used by account validations.
type ErrorCode string

const (
	// ErrorInvalidArgument indicates bad constructor or configuration input.
	ErrorInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrorSecurityBlocked indicates the security gate denied the operation.
	ErrorSecurityBlocked ErrorCode = "SECURITY_BLOCKED"
	// ErrorInsufficientFunds indicates the balance cannot cover the amount.
	ErrorInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	// ErrorCreditLimitExceeded indicates the operation would breach the overdraft floor.
	ErrorCreditLimitExceeded ErrorCode = "CREDIT_LIMIT_EXCEEDED"
	// ErrorLoanPolicyViolation indicates an active-loan conflict or over-limit request.
	ErrorLoanPolicyViolation ErrorCode = "LOAN_POLICY_VIOLATION"
	// ErrorLinkingConflict indicates a self-link, duplicate link, or unknown provider.
	ErrorLinkingConflict ErrorCode = "LINKING_CONFLICT"
)

// DomainError represents a structured account domain validation error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}
