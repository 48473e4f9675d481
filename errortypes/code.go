package errortypes

// Defines numeric codes for well-known errors.
const (
	UnknownErrorCode         = 999
	ExternalServiceErrorCode = 1
	NotFoundErrorCode        = 2
	BadInputErrorCode        = 3
	BatchWriteErrorCode      = 4
	GeocodeErrorCode         = 5
)

// Coder provides an error code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	if e, ok := err.(Coder); ok {
		return e.Code()
	}
	return UnknownErrorCode
}
