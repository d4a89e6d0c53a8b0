package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// EmojiDescriptor is the unit of work: one custom emoji and where its image lives.
type EmojiDescriptor struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
}

func NewEmojiDescriptor(name, sourceURL string) (EmojiDescriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return EmojiDescriptor{}, fmt.Errorf("emoji name is empty: %w", ErrInvalidArgument)
	}
	if err := ValidateImageURL(sourceURL); err != nil {
		return EmojiDescriptor{}, fmt.Errorf("emoji %q: %w", name, err)
	}
	return EmojiDescriptor{Name: name, SourceURL: strings.TrimSpace(sourceURL)}, nil
}

// ValidateImageURL accepts absolute http(s) URLs only.
func ValidateImageURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("image url is empty: %w", ErrInvalidArgument)
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("image url %q: %v: %w", s, err, ErrInvalidArgument)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image url %q is not an absolute http(s) url: %w", s, ErrInvalidArgument)
	}
	return nil
}

// SkippedEntry is a listing entry that never becomes a descriptor, such as
// an alias of another emoji or a value that is not an image URL.
type SkippedEntry struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type Batch struct {
	Index int               `json:"index"`
	Items []EmojiDescriptor `json:"items"`
}

type UploadOutcome struct {
	Name        string `json:"name"`
	SourceURL   string `json:"source_url"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

func SucceededOutcome(d EmojiDescriptor, size int64, contentType string) UploadOutcome {
	return UploadOutcome{
		Name:        d.Name,
		SourceURL:   d.SourceURL,
		Success:     true,
		Bytes:       size,
		ContentType: contentType,
	}
}

func FailedOutcome(d EmojiDescriptor, err error) UploadOutcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return UploadOutcome{
		Name:      d.Name,
		SourceURL: d.SourceURL,
		Success:   false,
		Error:     msg,
	}
}

// TransferPlan is built once per run and only read while batches execute.
type TransferPlan struct {
	RunID            string        `json:"run_id"`
	Batches          []Batch       `json:"batches"`
	BatchSize        int           `json:"batch_size"`
	BatchInterval    time.Duration `json:"batch_interval"`
	DestinationToken string        `json:"-"`
}

func (p TransferPlan) TotalItems() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b.Items)
	}
	return n
}

// StartOffset is the fixed-grid offset of batch i from the start of the run.
func (p TransferPlan) StartOffset(i int) time.Duration {
	if i <= 0 {
		return 0
	}
	return time.Duration(i) * p.BatchInterval
}
