package domain

// ExportFailure records one failed item of an export run. Failures never
// abort the run; they are collected in source order.
type ExportFailure struct {
	Path  string
	Kind  ErrorKind
	Cause string
}

// ExportReport aggregates the outcome of one export run.
type ExportReport struct {
	RunID        string
	SuccessCount int
	Failures     []ExportFailure
}
