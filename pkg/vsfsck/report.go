package vsfsck

import "fmt"

// Report accumulates the line-oriented textual report the driver emits
// to stdout. Every mutation the checker performs is recorded here as one
// line before it is ever printed, so a caller that wants the report
// without the side effect of printing (the tests, for instance) can just
// read Lines().
type Report struct {
	lines []string
}

// Line appends a single, already-formatted report line.
func (r *Report) Line(s string) {
	r.lines = append(r.lines, s)
}

// Linef appends a report line built from a format string.
func (r *Report) Linef(format string, args ...interface{}) {
	r.Line(fmt.Sprintf(format, args...))
}

// Lines returns every line recorded so far, in emission order.
func (r *Report) Lines() []string {
	return r.lines
}
