package transfer

import (
	"context"
	"errors"
	"time"

	"emoji-transfer/internal/model"

	"go.uber.org/zap"
)

type EmojiLister interface {
	ListEmoji(ctx context.Context, token string) (map[string]string, error)
}

// Prompter collects credentials and the preview decision from the user.
// The orchestrator asks for each value at the point of the run that needs it.
type Prompter interface {
	SourceToken() (string, error)
	Preview() (bool, error)
	ConfirmTransfer(descriptors []model.EmojiDescriptor, skipped []model.SkippedEntry) (bool, error)
	DestinationToken() (string, error)
}

// Options configures a run. AskPreview defers the preview decision to
// Prompter.Preview and takes precedence over Preview.
type Options struct {
	Preview       bool
	AskPreview    bool
	DryRun        bool
	BatchSize     int
	BatchInterval time.Duration
}

type Orchestrator struct {
	Lister   EmojiLister
	Fetcher  ImageFetcher
	Creator  EmojiCreator
	Prompter Prompter
	Reporter Reporter
	Clock    Clock
	Logger   *zap.Logger
	Options  Options
}

func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := o.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	started := time.Now()

	sourceToken, err := o.Prompter.SourceToken()
	if err != nil {
		return Report{}, asCredentialError("source token", err)
	}
	if err := model.ValidateSourceToken(sourceToken); err != nil {
		return Report{}, &model.CredentialInputError{Field: "source token", Err: err}
	}

	listing, err := o.Lister.ListEmoji(ctx, sourceToken)
	if err != nil {
		var sle *model.SourceListError
		if !errors.As(err, &sle) {
			err = &model.SourceListError{Err: err}
		}
		logger.Error("list source emoji failed", zap.Error(err))
		return Report{}, err
	}

	descriptors, skipped := BuildDescriptors(listing)
	logger.Info("source emoji listed",
		zap.Int("listed", len(listing)),
		zap.Int("transferable", len(descriptors)),
		zap.Int("skipped", len(skipped)),
	)

	preview := o.Options.Preview
	if o.Options.AskPreview {
		preview, err = o.Prompter.Preview()
		if err != nil {
			return Report{}, err
		}
	}
	if preview {
		proceed, err := o.Prompter.ConfirmTransfer(descriptors, skipped)
		if err != nil {
			return Report{}, err
		}
		if !proceed {
			logger.Info("transfer declined after preview")
			return Report{Aborted: true, Skipped: skipped, Outcomes: []model.UploadOutcome{}}, nil
		}
	}

	destinationToken, err := o.Prompter.DestinationToken()
	if err != nil {
		return Report{}, asCredentialError("destination token", err)
	}
	plan, err := NewPlan(descriptors, o.Options.BatchSize, o.Options.BatchInterval, destinationToken)
	if err != nil {
		return Report{}, err
	}
	logger = logger.With(zap.String("run_id", plan.RunID))
	reporter.TransferPlanned(plan)

	if o.Options.DryRun {
		report := BuildReport(plan, nil, skipped, time.Since(started))
		report.DryRun = true
		return report, nil
	}

	sched := &Scheduler{
		Uploader: &Uploader{
			Fetcher: o.Fetcher,
			Creator: o.Creator,
			Token:   plan.DestinationToken,
			Logger:  logger,
		},
		Clock:    o.Clock,
		Reporter: reporter,
		Logger:   logger,
	}
	outcomes := sched.Run(ctx, plan)

	report := BuildReport(plan, outcomes, skipped, time.Since(started))
	reporter.TransferCompleted(report)
	return report, nil
}

func asCredentialError(field string, err error) error {
	var ce *model.CredentialInputError
	if errors.As(err, &ce) {
		return err
	}
	return &model.CredentialInputError{Field: field, Err: err}
}
