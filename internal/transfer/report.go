package transfer

import (
	"time"

	"emoji-transfer/internal/model"
)

// Report is the aggregate result of one run.
type Report struct {
	RunID     string                `json:"run_id,omitempty"`
	Aborted   bool                  `json:"aborted,omitempty"`
	DryRun    bool                  `json:"dry_run,omitempty"`
	Batches   int                   `json:"batches"`
	Planned   int                   `json:"planned"`
	Processed int                   `json:"processed"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Bytes     int64                 `json:"bytes_uploaded"`
	Skipped   []model.SkippedEntry  `json:"skipped,omitempty"`
	Failures  []model.UploadOutcome `json:"failures,omitempty"`
	Outcomes  []model.UploadOutcome `json:"outcomes"`
	Elapsed   time.Duration         `json:"-"`
}

func (r Report) HasFailures() bool {
	return r.Failed > 0
}

func BuildReport(plan model.TransferPlan, outcomes []model.UploadOutcome, skipped []model.SkippedEntry, elapsed time.Duration) Report {
	r := Report{
		RunID:     plan.RunID,
		Batches:   len(plan.Batches),
		Planned:   plan.TotalItems(),
		Processed: len(outcomes),
		Skipped:   skipped,
		Outcomes:  outcomes,
		Elapsed:   elapsed,
	}
	if r.Outcomes == nil {
		r.Outcomes = []model.UploadOutcome{}
	}
	for _, o := range outcomes {
		if o.Success {
			r.Succeeded++
			r.Bytes += o.Bytes
			continue
		}
		r.Failed++
		r.Failures = append(r.Failures, o)
	}
	return r
}
