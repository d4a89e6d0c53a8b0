package transfer

import (
	"context"
	"fmt"
	"sync"

	"emoji-transfer/internal/model"

	"go.uber.org/zap"
)

// Scheduler runs the batches of a plan on a fixed grid: batch i starts at
// plan start + i*interval whether or not batch i-1 has finished. Items of a
// batch upload concurrently. Batch completions are reported in schedule order.
type Scheduler struct {
	Uploader ItemUploader
	Clock    Clock
	Reporter Reporter
	Logger   *zap.Logger
}

// Run attempts every descriptor of the plan exactly once and returns one
// outcome per descriptor, in plan order. ctx is only handed to the uploader.
func (s *Scheduler) Run(ctx context.Context, plan model.TransferPlan) []model.UploadOutcome {
	clock := s.Clock
	if clock == nil {
		clock = SystemClock()
	}
	reporter := s.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	total := len(plan.Batches)
	results := make([]model.UploadOutcome, plan.TotalItems())
	completed := make([]chan BatchSummary, total)
	for i := range completed {
		completed[i] = make(chan BatchSummary, 1)
	}

	reportDone := make(chan struct{})
	go func() {
		defer close(reportDone)
		for i := range completed {
			reporter.BatchCompleted(<-completed[i])
		}
	}()

	start := clock.Now()
	var wg sync.WaitGroup
	base := 0
	for i, batch := range plan.Batches {
		at := start.Add(plan.StartOffset(i))
		if wait := at.Sub(clock.Now()); wait > 0 {
			reporter.BatchWaiting(i, total, wait)
			clock.Sleep(wait)
		}
		reporter.BatchStarted(i, total, len(batch.Items))
		logger.Debug("dispatching batch",
			zap.Int("batch", i+1),
			zap.Int("batches", total),
			zap.Duration("offset", plan.StartOffset(i)),
		)

		wg.Add(1)
		go func(index, base int, items []model.EmojiDescriptor) {
			defer wg.Done()
			completed[index] <- s.runBatch(ctx, clock, index, total, items, results[base:base+len(items)])
		}(i, base, batch.Items)
		base += len(batch.Items)
	}

	wg.Wait()
	<-reportDone
	return results
}

// runBatch fans out one goroutine per item; each writes only its own slot.
func (s *Scheduler) runBatch(ctx context.Context, clock Clock, index, total int, items []model.EmojiDescriptor, slots []model.UploadOutcome) BatchSummary {
	started := clock.Now()
	var wg sync.WaitGroup
	for j, d := range items {
		j, d := j, d
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots[j] = s.uploadOne(ctx, d)
		}()
	}
	wg.Wait()

	summary := BatchSummary{
		Index:    index,
		Total:    total,
		Duration: clock.Now().Sub(started),
	}
	for _, o := range slots {
		if o.Success {
			summary.Succeeded = append(summary.Succeeded, o)
		} else {
			summary.Failed = append(summary.Failed, o)
		}
	}
	return summary
}

func (s *Scheduler) uploadOne(ctx context.Context, d model.EmojiDescriptor) (out model.UploadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = model.FailedOutcome(d, fmt.Errorf("upload panicked: %v", r))
		}
	}()
	return s.Uploader.Upload(ctx, d)
}
