package models

// Outcome is the result of one dispatcher run over a single batch.
type Outcome struct {
	Format    Format
	Converted []string
	Skipped   []string
	Errors    []error
}

// Attempted is the number of inputs that reached a terminal state.
func (o *Outcome) Attempted() int {
	return len(o.Converted) + len(o.Skipped) + len(o.Errors)
}
