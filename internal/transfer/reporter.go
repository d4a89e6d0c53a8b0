package transfer

import (
	"time"

	"emoji-transfer/internal/model"

	"go.uber.org/zap"
)

// BatchSummary is emitted once per batch after every item in it resolved.
type BatchSummary struct {
	Index     int                   `json:"index"`
	Total     int                   `json:"total"`
	Succeeded []model.UploadOutcome `json:"succeeded"`
	Failed    []model.UploadOutcome `json:"failed"`
	Duration  time.Duration         `json:"-"`
}

func (s BatchSummary) Size() int {
	return len(s.Succeeded) + len(s.Failed)
}

// Reporter receives transfer events. BatchCompleted is called from a
// different goroutine than the other batch events, so implementations must
// be safe for concurrent use.
type Reporter interface {
	TransferPlanned(plan model.TransferPlan)
	BatchWaiting(index, total int, wait time.Duration)
	BatchStarted(index, total, size int)
	BatchCompleted(summary BatchSummary)
	TransferCompleted(report Report)
}

type NopReporter struct{}

func (NopReporter) TransferPlanned(model.TransferPlan)   {}
func (NopReporter) BatchWaiting(int, int, time.Duration) {}
func (NopReporter) BatchStarted(int, int, int)           {}
func (NopReporter) BatchCompleted(BatchSummary)          {}
func (NopReporter) TransferCompleted(Report)             {}

// MultiReporter forwards every event to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) TransferPlanned(plan model.TransferPlan) {
	for _, r := range m {
		r.TransferPlanned(plan)
	}
}

func (m MultiReporter) BatchWaiting(index, total int, wait time.Duration) {
	for _, r := range m {
		r.BatchWaiting(index, total, wait)
	}
}

func (m MultiReporter) BatchStarted(index, total, size int) {
	for _, r := range m {
		r.BatchStarted(index, total, size)
	}
}

func (m MultiReporter) BatchCompleted(summary BatchSummary) {
	for _, r := range m {
		r.BatchCompleted(summary)
	}
}

func (m MultiReporter) TransferCompleted(report Report) {
	for _, r := range m {
		r.TransferCompleted(report)
	}
}

// LogReporter writes transfer events to a zap logger.
type LogReporter struct {
	Logger *zap.Logger
}

func (r LogReporter) TransferPlanned(plan model.TransferPlan) {
	r.Logger.Info("transfer planned",
		zap.String("run_id", plan.RunID),
		zap.Int("emoji", plan.TotalItems()),
		zap.Int("batches", len(plan.Batches)),
		zap.Int("batch_size", plan.BatchSize),
		zap.Duration("batch_interval", plan.BatchInterval),
	)
}

func (r LogReporter) BatchWaiting(index, total int, wait time.Duration) {
	r.Logger.Info("waiting for batch slot",
		zap.Int("batch", index+1),
		zap.Int("batches", total),
		zap.Duration("wait", wait),
	)
}

func (r LogReporter) BatchStarted(index, total, size int) {
	r.Logger.Info("batch started",
		zap.Int("batch", index+1),
		zap.Int("batches", total),
		zap.Int("size", size),
	)
}

func (r LogReporter) BatchCompleted(summary BatchSummary) {
	fields := []zap.Field{
		zap.Int("batch", summary.Index+1),
		zap.Int("batches", summary.Total),
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Duration("duration", summary.Duration),
	}
	if len(summary.Failed) > 0 {
		names := make([]string, 0, len(summary.Failed))
		for _, o := range summary.Failed {
			names = append(names, o.Name)
		}
		fields = append(fields, zap.Strings("failed_emoji", names))
		r.Logger.Warn("batch completed with failures", fields...)
		return
	}
	r.Logger.Info("batch completed", fields...)
}

func (r LogReporter) TransferCompleted(report Report) {
	r.Logger.Info("transfer completed",
		zap.String("run_id", report.RunID),
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int64("bytes", report.Bytes),
		zap.Duration("elapsed", report.Elapsed),
	)
}
