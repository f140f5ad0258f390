// Package report renders the results of a suite run as plain text or as a standalone HTML page.
package report

import "github.com/sumitdasdk/DRX-pro/journal"

type options struct {
	// Journal supplies the log records of failed scenarios.
	Journal *journal.Journal
	// LogTail is the number of log records shown per failed scenario.
	LogTail int
	// Verbose also lists the steps of passed scenarios.
	Verbose bool
	Title   string
}

type Option func(*options)

// WithJournal adds captured log records to failed scenarios.
// Default shows no log records.
func WithJournal(j *journal.Journal, logTail int) Option {
	return func(o *options) {
		o.Journal = j
		o.LogTail = logTail
	}
}

func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.Verbose = verbose
	}
}

// WithTitle sets the HTML page title. Default is "DRX-pro suite report".
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

func newOptions(opts []Option) options {
	o := options{Title: "DRX-pro suite report"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
