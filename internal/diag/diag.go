// Package diag defines the diagnostic record model shared by the whole
// engine and the delivery boundary diagnostics cross on their way to a
// consumer.
//
// Records carry no persistent identity. Every scan of a target replaces
// that target's records wholesale, so consumers never reconcile old and
// new findings.
package diag

// Record is one normalized finding produced by an external tool.
// Line and column numbers are zero-based. End positions are -1 when the
// tool did not report one, keeping them distinguishable from line 0.
type Record struct {
	Lnum     int      `json:"lnum"`
	Col      int      `json:"col"`
	EndLnum  int      `json:"end_lnum"`
	EndCol   int      `json:"end_col"`
	Severity Severity `json:"severity,omitempty"`
	Message  string   `json:"message"`
	Source   string   `json:"source,omitempty"`
	UserData any      `json:"user_data,omitempty"`
}

// NewRecord creates a record at the given zero-based position with no
// end position.
func NewRecord(lnum, col int, message string) Record {
	return Record{
		Lnum:    lnum,
		Col:     col,
		EndLnum: -1,
		EndCol:  -1,
		Message: message,
	}
}

// HasEnd reports whether the record carries an end position.
func (r Record) HasEnd() bool {
	return r.EndLnum >= 0
}

// Publisher receives finished deliveries for a target. A delivery
// replaces everything previously published for that target within the
// publisher's scope; an empty or nil list clears it. Re-delivering the
// same list is harmless.
type Publisher interface {
	Publish(target string, records []Record)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(target string, records []Record)

// Publish calls f.
func (f PublisherFunc) Publish(target string, records []Record) {
	f(target, records)
}
