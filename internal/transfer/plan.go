package transfer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"emoji-transfer/internal/model"
	"emoji-transfer/internal/slack"

	"github.com/google/uuid"
)

func NewPlan(descriptors []model.EmojiDescriptor, batchSize int, interval time.Duration, destinationToken string) (model.TransferPlan, error) {
	if interval < 0 {
		return model.TransferPlan{}, fmt.Errorf("batch interval must be >= 0, got %s: %w", interval, model.ErrInvalidArgument)
	}
	if err := model.ValidateDestinationToken(destinationToken); err != nil {
		return model.TransferPlan{}, &model.CredentialInputError{Field: "destination token", Err: err}
	}
	batches, err := PartitionDescriptors(descriptors, batchSize)
	if err != nil {
		return model.TransferPlan{}, err
	}
	return model.TransferPlan{
		RunID:            uuid.NewString(),
		Batches:          batches,
		BatchSize:        batchSize,
		BatchInterval:    interval,
		DestinationToken: strings.TrimSpace(destinationToken),
	}, nil
}

// BuildDescriptors turns a source listing into descriptors sorted by name.
// Aliases and entries without a usable image URL are returned as skipped.
func BuildDescriptors(listing map[string]string) ([]model.EmojiDescriptor, []model.SkippedEntry) {
	names := make([]string, 0, len(listing))
	for name := range listing {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]model.EmojiDescriptor, 0, len(names))
	skipped := make([]model.SkippedEntry, 0)
	for _, name := range names {
		value := listing[name]
		if target, ok := slack.AliasTarget(value); ok {
			skipped = append(skipped, model.SkippedEntry{
				Name:   name,
				Value:  value,
				Reason: "alias of " + target,
			})
			continue
		}
		d, err := model.NewEmojiDescriptor(name, value)
		if err != nil {
			skipped = append(skipped, model.SkippedEntry{
				Name:   name,
				Value:  value,
				Reason: err.Error(),
			})
			continue
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, skipped
}
