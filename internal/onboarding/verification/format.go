package verification

import (
	"errors"
	"regexp"
	"strings"
)

const (
	maxLocalLength  = 64
	maxDomainLength = 255
)

var (
	shapePattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localPattern  = regexp.MustCompile(`^[a-zA-Z0-9._+-]+$`)
	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Format failures. Each maps to its own user message through FormatError.
var (
	ErrEmailRequired  = errors.New("verification: email required")
	ErrEmailInvalid   = errors.New("verification: email invalid")
	ErrLocalRequired  = errors.New("verification: local part required")
	ErrLocalTooLong   = errors.New("verification: local part too long")
	ErrLocalInvalid   = errors.New("verification: local part invalid")
	ErrDomainRequired = errors.New("verification: domain required")
	ErrDomainTooLong  = errors.New("verification: domain too long")
	ErrDomainInvalid  = errors.New("verification: domain invalid")
)

var formatMessages = map[error]string{
	ErrEmailRequired:  "Please enter an email address.",
	ErrEmailInvalid:   "Please enter a valid email address.",
	ErrLocalRequired:  "Please enter the part before @.",
	ErrLocalTooLong:   "The part before @ must be at most 64 characters.",
	ErrLocalInvalid:   "The part before @ may only contain letters, digits, '.', '_', '+' and '-'.",
	ErrDomainRequired: "Please choose or enter a domain.",
	ErrDomainTooLong:  "The domain must be at most 255 characters.",
	ErrDomainInvalid:  "Please enter a valid domain such as example.com.",
}

// FormatError is a field-format failure with a message for the user.
type FormatError struct {
	Reason  error
	Message string
}

func (e *FormatError) Error() string { return e.Reason.Error() }
func (e *FormatError) Unwrap() error { return e.Reason }

func formatErr(reason error) error {
	return &FormatError{Reason: reason, Message: formatMessages[reason]}
}

// ValidateEmail checks addr without touching the network.
func ValidateEmail(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return formatErr(ErrEmailRequired)
	}
	if !shapePattern.MatchString(addr) {
		return formatErr(ErrEmailInvalid)
	}

	local, domain, _ := strings.Cut(addr, "@")
	switch {
	case local == "":
		return formatErr(ErrLocalRequired)
	case len(local) > maxLocalLength:
		return formatErr(ErrLocalTooLong)
	case !localPattern.MatchString(local):
		return formatErr(ErrLocalInvalid)
	case domain == "":
		return formatErr(ErrDomainRequired)
	case len(domain) > maxDomainLength:
		return formatErr(ErrDomainTooLong)
	case !domainPattern.MatchString(domain):
		return formatErr(ErrDomainInvalid)
	}
	return nil
}
