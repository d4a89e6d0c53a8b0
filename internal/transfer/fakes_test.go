package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"emoji-transfer/internal/model"
	"emoji-transfer/internal/slack"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// funcUploader adapts a function to ItemUploader.
type funcUploader func(ctx context.Context, d model.EmojiDescriptor) model.UploadOutcome

func (f funcUploader) Upload(ctx context.Context, d model.EmojiDescriptor) model.UploadOutcome {
	return f(ctx, d)
}

type recordingReporter struct {
	mu        sync.Mutex
	clock     Clock
	planned   []model.TransferPlan
	waits     []time.Duration
	starts    []time.Time
	completed []BatchSummary
	reports   []Report
}

func (r *recordingReporter) TransferPlanned(plan model.TransferPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.planned = append(r.planned, plan)
}

func (r *recordingReporter) BatchWaiting(_, _ int, wait time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, wait)
}

func (r *recordingReporter) BatchStarted(_, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clock != nil {
		r.starts = append(r.starts, r.clock.Now())
	}
}

func (r *recordingReporter) BatchCompleted(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, summary)
}

func (r *recordingReporter) TransferCompleted(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

type fakeSlack struct {
	mu       sync.Mutex
	listing  map[string]string
	listErr  error
	fetchErr map[string]error
	rejects  map[string]string
	created  []string
	tokens   []string
	sentType map[string]string
	listed   int
}

func (f *fakeSlack) ListEmoji(_ context.Context, _ string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listing, nil
}

func (f *fakeSlack) FetchImage(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.fetchErr[url]; ok {
		return nil, &model.FetchError{URL: url, StatusCode: 404, Err: err}
	}
	return []byte("GIF89a" + url), nil
}

func (f *fakeSlack) CreateEmoji(_ context.Context, token, name string, image slack.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.sentType == nil {
		f.sentType = map[string]string{}
	}
	f.sentType[name] = image.ContentType
	if code, ok := f.rejects[name]; ok {
		return &model.UploadError{Name: name, Code: code}
	}
	f.created = append(f.created, name)
	return nil
}

func (f *fakeSlack) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type scriptedPrompter struct {
	source      string
	destination string
	preview     bool
	confirm     bool
	err         error

	askedPreview int
	previewed    int
	destAsked    int
	previewSize  int
}

func (p *scriptedPrompter) SourceToken() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.source, nil
}

func (p *scriptedPrompter) Preview() (bool, error) {
	p.askedPreview++
	return p.preview, nil
}

func (p *scriptedPrompter) ConfirmTransfer(ds []model.EmojiDescriptor, _ []model.SkippedEntry) (bool, error) {
	p.previewed++
	p.previewSize = len(ds)
	return p.confirm, nil
}

func (p *scriptedPrompter) DestinationToken() (string, error) {
	p.destAsked++
	return p.destination, nil
}

func descriptors(n int) []model.EmojiDescriptor {
	out := make([]model.EmojiDescriptor, n)
	for i := range out {
		out[i] = model.EmojiDescriptor{
			Name:      fmt.Sprintf("emoji_%02d", i),
			SourceURL: fmt.Sprintf("https://emoji.example.com/%02d.gif", i),
		}
	}
	return out
}

var errNotFound = errors.New("not found")
