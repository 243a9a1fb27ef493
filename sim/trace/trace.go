package trace

// DispatchTrace collects dispatch records during a run.
type DispatchTrace struct {
	Dispatches []DispatchRecord
}

// NewDispatchTrace creates a DispatchTrace ready for recording.
func NewDispatchTrace() *DispatchTrace {
	return &DispatchTrace{
		Dispatches: make([]DispatchRecord, 0),
	}
}

// RecordDispatch appends a dispatch record.
func (dt *DispatchTrace) RecordDispatch(record DispatchRecord) {
	dt.Dispatches = append(dt.Dispatches, record)
}
