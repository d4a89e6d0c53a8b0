package transfer

import (
	"context"
	"time"

	"emoji-transfer/internal/model"
	"emoji-transfer/internal/slack"

	"go.uber.org/zap"
)

type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

type EmojiCreator interface {
	CreateEmoji(ctx context.Context, token, name string, image slack.Image) error
}

// ItemUploader transfers one descriptor and always returns an outcome.
type ItemUploader interface {
	Upload(ctx context.Context, d model.EmojiDescriptor) model.UploadOutcome
}

// Uploader fetches an emoji image and creates it in the destination
// workspace. Every failure, local or remote, collapses into a failed outcome.
// There is exactly one attempt per call.
type Uploader struct {
	Fetcher ImageFetcher
	Creator EmojiCreator
	Token   string
	Logger  *zap.Logger
}

func (u *Uploader) Upload(ctx context.Context, d model.EmojiDescriptor) model.UploadOutcome {
	logger := u.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("emoji", d.Name))
	start := time.Now()

	image, err := u.Fetcher.FetchImage(ctx, d.SourceURL)
	if err != nil {
		logger.Warn("fetch emoji image failed",
			zap.String("source_url", d.SourceURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return model.FailedOutcome(d, err)
	}

	img := slack.NewImage(image)
	if err := u.Creator.CreateEmoji(ctx, u.Token, d.Name, img); err != nil {
		logger.Warn("create emoji failed",
			zap.Int("bytes", len(image)),
			zap.String("content_type", img.ContentType),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return model.FailedOutcome(d, err)
	}

	logger.Debug("emoji uploaded",
		zap.Int("bytes", len(image)),
		zap.String("content_type", img.ContentType),
		zap.Duration("duration", time.Since(start)),
	)
	return model.SucceededOutcome(d, int64(len(image)), img.ContentType)
}
