package driven

import "time"

// OutcomeRecorder receives one observation per document operation.
// kind is empty for a success, otherwise the domain.ErrorKind string.
type OutcomeRecorder interface {
	RecordOutcome(operation, kind string, elapsed time.Duration)
}
