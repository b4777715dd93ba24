package harness

// TraceEvent records one session mutation.
type TraceEvent struct {
	Seq         int64  `json:"seq"`
	Op          string `json:"op"` // "open", "preset", "set"
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
	Rejected    bool   `json:"rejected,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Output is the rendered markup in the scenario's mode.
	Output string `json:"output"`

	// Trace contains the session mutations in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a mutation to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
