package journal

import "time"

// Run is one batch invocation.
type Run struct {
	ID          string        `json:"id" yaml:"id"`
	Root        string        `json:"root" yaml:"root"`
	Policy      string        `json:"policy" yaml:"policy"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Processed   int           `json:"processed" yaml:"processed"`
	Updated     int           `json:"updated" yaml:"updated"`
	Skipped     int           `json:"skipped" yaml:"skipped"`
	Failed      int           `json:"failed" yaml:"failed"`
	Interrupted bool          `json:"interrupted" yaml:"interrupted"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Finished reports whether the run recorded a summary.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// Summary is the final tally stored by FinishRun.
type Summary struct {
	Processed   int
	Updated     int
	Skipped     int
	Failed      int
	Interrupted bool
	Elapsed     time.Duration
}

// FileEntry is the recorded outcome of one file.
type FileEntry struct {
	Path       string    `json:"path" yaml:"path"`
	Status     string    `json:"status" yaml:"status"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}
