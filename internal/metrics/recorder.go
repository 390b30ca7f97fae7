package metrics

// WriteResult labels state write outcomes.
type WriteResult string

const (
	WriteSuccess WriteResult = "success"
	WriteFailed  WriteResult = "failed"
)

// Recorder defines observability hooks for state maintenance and mutations.
type Recorder interface {
	IncStateRepair()
	IncStateWrite(result WriteResult)
	IncDuplicateItem()
	AddItemsDeleted(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncStateRepair()           {}
func (NoopRecorder) IncStateWrite(WriteResult) {}
func (NoopRecorder) IncDuplicateItem()         {}
func (NoopRecorder) AddItemsDeleted(int)       {}
