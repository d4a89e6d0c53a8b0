package transfer

import (
	"fmt"

	"emoji-transfer/internal/model"
)

// Partition splits items into contiguous groups of size, keeping order.
// Every group but the last holds exactly size items. The groups are copies.
func Partition[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be > 0, got %d: %w", size, model.ErrInvalidArgument)
	}
	count := (len(items) + size - 1) / size
	out := make([][]T, 0, count)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		group := make([]T, end-start)
		copy(group, items[start:end])
		out = append(out, group)
	}
	return out, nil
}

func PartitionDescriptors(descriptors []model.EmojiDescriptor, size int) ([]model.Batch, error) {
	groups, err := Partition(descriptors, size)
	if err != nil {
		return nil, err
	}
	batches := make([]model.Batch, len(groups))
	for i, g := range groups {
		batches[i] = model.Batch{Index: i, Items: g}
	}
	return batches, nil
}
