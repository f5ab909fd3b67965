package downloader

import "fmt"

// Summary tallies the outcomes of a download run.
type Summary struct {
	Downloaded  int
	Skipped     int
	Overwritten int
	Failed      int
}

// Record counts one outcome.
func (s *Summary) Record(status Status) {
	switch status {
	case StatusDownloaded:
		s.Downloaded++
	case StatusSkipped:
		s.Skipped++
	case StatusOverwritten:
		s.Overwritten++
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of outcomes recorded.
func (s Summary) Total() int {
	return s.Downloaded + s.Skipped + s.Overwritten + s.Failed
}

// OK reports whether the run finished without failures.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// String renders the summary as a single line.
func (s Summary) String() string {
	return fmt.Sprintf("%d downloaded, %d skipped, %d overwritten, %d failed",
		s.Downloaded, s.Skipped, s.Overwritten, s.Failed)
}
