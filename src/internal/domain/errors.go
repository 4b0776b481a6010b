package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrDuplicateImport = errors.New("File was already imported")
var ErrInvalidAccount = errors.New("Account not found or inactive")
var ErrAlreadyReconciled = errors.New("Entity is already reconciled")
var ErrUnsupportedFormat = errors.New("Unsupported file format")
var ErrEmptyImport = errors.New("File produced no rows")

// ValidationError carries the reasons a request was rejected. The operation
// is aborted whole; nothing is partially applied.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return "validation failed"
	}
	msg := e.Reasons[0]
	for _, r := range e.Reasons[1:] {
		msg += "; " + r
	}
	return msg
}

func NewValidationError(reasons ...string) error {
	return &ValidationError{Reasons: reasons}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
