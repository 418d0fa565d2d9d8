// Package admission contains the pure decision logic for the pre-flight
// checks run before a file is handed to a transformation backend.
// This is part of the Functional Core - no I/O, only pure functions.
// The pipeline service gathers the facts (file size, page count, prior
// record) and evaluates the checks in their fixed order.
package admission

import "fmt"

// Reason names match the seeded skip_reasons catalog rows.
const (
	ReasonShrankNegatively = "shrank negatively"
	ReasonTimeoutExceeded  = "timeout exceeded"
	ReasonOther            = "other"
	ReasonPageSizeCeiling  = "page-size ceiling exceeded"
	ReasonBelowSizeFloor   = "below size floor"
)

// MinFileSizeBytes is the hard design floor below which files are never
// processed. Sub-floor files are assumed to already be optimal. This is
// deliberately not profile-configurable.
const MinFileSizeBytes = 1 << 20 // 1 MiB

// Verdict classifies the terminal action an admission check demands.
type Verdict int

const (
	// VerdictProceed lets the file continue to the next check.
	VerdictProceed Verdict = iota
	// VerdictSkip excludes the file by policy; counted as skipped.
	VerdictSkip
	// VerdictFail marks the file as failed; counted as failed.
	VerdictFail
)

// Decision is the outcome of one admission check. Record reports
// whether an OutcomeRecord should be written for the decision (the
// duplicate check is the one terminal decision that must not write).
type Decision struct {
	Verdict Verdict
	Reason  string
	Detail  string
	Record  bool
}

// Proceed is the pass-through decision.
func Proceed() Decision {
	return Decision{Verdict: VerdictProceed}
}

// CheckDuplicate terminates processing when a prior record exists for
// the path, success or failure alike: the file was already adjudicated.
// No new record is written.
func CheckDuplicate(alreadyRecorded bool) Decision {
	if alreadyRecorded {
		return Decision{Verdict: VerdictSkip, Detail: "already processed"}
	}
	return Proceed()
}

// CheckSize skips files below the fixed 1 MiB floor.
func CheckSize(sizeBytes int64) Decision {
	if sizeBytes >= MinFileSizeBytes {
		return Proceed()
	}
	return Decision{
		Verdict: VerdictSkip,
		Reason:  ReasonBelowSizeFloor,
		Detail:  fmt.Sprintf("file size %d bytes is below the %d byte floor", sizeBytes, int64(MinFileSizeBytes)),
		Record:  true,
	}
}

// CheckPageDensity skips files whose average per-page size is already
// below the configured ceiling, i.e. files judged already well
// compressed. Note the direction: this is a lower-bound skip, kept
// compatible with the stored data even though the column is named as a
// maximum. Callers must only invoke this when a ceiling is configured
// and a page count could be obtained; an unavailable page counter makes
// the check fail open.
func CheckPageDensity(sizeBytes int64, pages int, ceilingKBPerPage float64) Decision {
	if pages <= 0 || ceilingKBPerPage <= 0 {
		return Proceed()
	}
	avg := float64(sizeBytes) / 1024 / float64(pages)
	if avg >= ceilingKBPerPage {
		return Proceed()
	}
	return Decision{
		Verdict: VerdictSkip,
		Reason:  ReasonPageSizeCeiling,
		Detail: fmt.Sprintf("average %.1f KB/page over %d pages is under the %.1f KB/page ceiling; already well compressed",
			avg, pages, ceilingKBPerPage),
		Record: true,
	}
}

// CheckOCRPageCeiling skips files with more pages than the profile
// allows for text-recognition backends. Only applied when the chosen
// backend supports text recognition.
func CheckOCRPageCeiling(pages, maxPages int) Decision {
	if maxPages <= 0 || pages <= maxPages {
		return Proceed()
	}
	return Decision{
		Verdict: VerdictSkip,
		Reason:  ReasonOther,
		Detail:  fmt.Sprintf("%d pages exceeds the recognition ceiling of %d pages", pages, maxPages),
		Record:  true,
	}
}

// FailUnreadable classifies a stat/access error on the input file.
func FailUnreadable(err error) Decision {
	return Decision{
		Verdict: VerdictFail,
		Reason:  ReasonOther,
		Detail:  fmt.Sprintf("cannot access file: %v", err),
		Record:  true,
	}
}
