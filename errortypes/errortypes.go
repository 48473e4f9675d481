package errortypes

// ExternalService should be used when a call to a collaborating system
// (spreadsheet read, geocoder lookup) fails. The failure is not actionable by
// the caller and is surfaced as a 5xx.
type ExternalService struct {
	Message string
}

func (err *ExternalService) Error() string {
	return err.Message
}

func (err *ExternalService) Code() int {
	return ExternalServiceErrorCode
}

func (err *ExternalService) Severity() Severity {
	return SeverityFatal
}

// NotFound should be used when an identifier cannot be resolved against any of
// the lookup tiers. Surfaced as a 404.
type NotFound struct {
	Message string
}

func (err *NotFound) Error() string {
	return err.Message
}

func (err *NotFound) Code() int {
	return NotFoundErrorCode
}

func (err *NotFound) Severity() Severity {
	return SeverityFatal
}

// BadInput should be used when returning errors which are caused by malformed
// input at the HTTP boundary. It should _not_ be used if the error is a
// server-side issue. Surfaced as a 400.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}

// BatchWrite should be used when the final batched coordinate write of a
// reconciliation pass fails. The whole pass is aborted; no partial state is
// committed.
type BatchWrite struct {
	Message string
}

func (err *BatchWrite) Error() string {
	return err.Message
}

func (err *BatchWrite) Code() int {
	return BatchWriteErrorCode
}

func (err *BatchWrite) Severity() Severity {
	return SeverityFatal
}

// Geocode flags a per-row geocoder failure. These are recovered locally by the
// reconciler (the row degrades to a coordinate clear) and never abort a pass.
type Geocode struct {
	Message string
}

func (err *Geocode) Error() string {
	return err.Message
}

func (err *Geocode) Code() int {
	return GeocodeErrorCode
}

func (err *Geocode) Severity() Severity {
	return SeverityWarning
}
