package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"emoji-transfer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okUploader() ItemUploader {
	return funcUploader(func(_ context.Context, d model.EmojiDescriptor) model.UploadOutcome {
		return model.SucceededOutcome(d, 1, "image/gif")
	})
}

func testPlan(t *testing.T, n, size int, interval time.Duration) model.TransferPlan {
	t.Helper()
	plan, err := NewPlan(descriptors(n), size, interval, "xoxs-dest")
	require.NoError(t, err)
	return plan
}

func TestSchedulerStartsBatchesOnFixedGrid(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	rep := &recordingReporter{clock: clock}
	s := &Scheduler{Uploader: okUploader(), Clock: clock, Reporter: rep}

	out := s.Run(context.Background(), testPlan(t, 45, 20, 60*time.Second))
	require.Len(t, out, 45)

	require.Len(t, rep.starts, 3)
	offsets := make([]time.Duration, len(rep.starts))
	for i, at := range rep.starts {
		offsets[i] = at.Sub(start)
	}
	assert.Equal(t, []time.Duration{0, 60 * time.Second, 120 * time.Second}, offsets)
	assert.Equal(t, []time.Duration{60 * time.Second, 60 * time.Second}, rep.waits)

	require.Len(t, rep.completed, 3)
	assert.Equal(t, 20, rep.completed[0].Size())
	assert.Equal(t, 20, rep.completed[1].Size())
	assert.Equal(t, 5, rep.completed[2].Size())
}

func TestSchedulerProducesOneOutcomePerDescriptorInPlanOrder(t *testing.T) {
	plan := testPlan(t, 23, 4, 0)
	s := &Scheduler{Uploader: okUploader(), Clock: newFakeClock()}

	out := s.Run(context.Background(), plan)
	require.Len(t, out, 23)
	seen := make(map[string]int)
	for i, o := range out {
		assert.Equal(t, descriptors(23)[i].Name, o.Name)
		seen[o.Name]++
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "emoji %s", name)
	}
}

func TestSchedulerIsolatesFailuresWithinBatch(t *testing.T) {
	failing := map[string]bool{"emoji_01": true, "emoji_03": true}
	up := funcUploader(func(_ context.Context, d model.EmojiDescriptor) model.UploadOutcome {
		if failing[d.Name] {
			return model.FailedOutcome(d, errors.New("invalid_image"))
		}
		return model.SucceededOutcome(d, 1, "image/gif")
	})
	rep := &recordingReporter{}
	s := &Scheduler{Uploader: up, Clock: newFakeClock(), Reporter: rep}

	out := s.Run(context.Background(), testPlan(t, 5, 5, time.Minute))
	require.Len(t, out, 5)
	require.Len(t, rep.completed, 1)

	summary := rep.completed[0]
	require.Len(t, summary.Failed, 2)
	require.Len(t, summary.Succeeded, 3)
	for _, o := range summary.Failed {
		assert.True(t, failing[o.Name], "unexpected failure for %s", o.Name)
		assert.Equal(t, "invalid_image", o.Error)
	}
	for _, o := range summary.Succeeded {
		assert.False(t, failing[o.Name], "unexpected success for %s", o.Name)
		assert.Empty(t, o.Error)
	}
}

func TestSchedulerDoesNotWaitForSlowBatchAndReportsInScheduleOrder(t *testing.T) {
	secondStarted := make(chan struct{})
	up := funcUploader(func(_ context.Context, d model.EmojiDescriptor) model.UploadOutcome {
		switch d.Name {
		case "emoji_00":
			select {
			case <-secondStarted:
			case <-time.After(5 * time.Second):
				return model.FailedOutcome(d, errors.New("second batch never started while first was in flight"))
			}
		case "emoji_01":
			close(secondStarted)
		}
		return model.SucceededOutcome(d, 1, "image/gif")
	})
	rep := &recordingReporter{}
	s := &Scheduler{Uploader: up, Clock: newFakeClock(), Reporter: rep}

	out := s.Run(context.Background(), testPlan(t, 2, 1, time.Minute))
	require.Len(t, out, 2)
	assert.True(t, out[0].Success, out[0].Error)
	assert.True(t, out[1].Success, out[1].Error)

	require.Len(t, rep.completed, 2)
	assert.Equal(t, 0, rep.completed[0].Index)
	assert.Equal(t, 1, rep.completed[1].Index)
}

func TestSchedulerRecoversPanickingUpload(t *testing.T) {
	up := funcUploader(func(_ context.Context, d model.EmojiDescriptor) model.UploadOutcome {
		if d.Name == "emoji_02" {
			panic("boom")
		}
		return model.SucceededOutcome(d, 1, "image/gif")
	})
	s := &Scheduler{Uploader: up, Clock: newFakeClock()}

	out := s.Run(context.Background(), testPlan(t, 4, 2, 0))
	require.Len(t, out, 4)
	assert.False(t, out[2].Success)
	assert.Contains(t, out[2].Error, "boom")
	assert.True(t, out[3].Success)
}

func TestSchedulerMeasuresBatchDurationWithInjectedClock(t *testing.T) {
	clock := newFakeClock()
	rep := &recordingReporter{}
	slow := funcUploader(func(_ context.Context, d model.EmojiDescriptor) model.UploadOutcome {
		clock.Sleep(3 * time.Second)
		return model.SucceededOutcome(d, 1, "image/gif")
	})
	s := &Scheduler{Uploader: slow, Clock: clock, Reporter: rep}

	s.Run(context.Background(), testPlan(t, 1, 5, time.Minute))

	require.Len(t, rep.completed, 1)
	assert.Equal(t, 3*time.Second, rep.completed[0].Duration)
}

func TestSchedulerEmptyPlan(t *testing.T) {
	rep := &recordingReporter{}
	s := &Scheduler{Uploader: okUploader(), Clock: newFakeClock(), Reporter: rep}

	out := s.Run(context.Background(), testPlan(t, 0, 20, time.Minute))
	assert.Empty(t, out)
	assert.Empty(t, rep.completed)
}

func TestSchedulerWithSystemClockSpacesBatches(t *testing.T) {
	rep := &recordingReporter{clock: SystemClock()}
	s := &Scheduler{Uploader: okUploader(), Reporter: rep}

	begin := time.Now()
	out := s.Run(context.Background(), testPlan(t, 3, 1, 20*time.Millisecond))
	require.Len(t, out, 3)
	require.Len(t, rep.starts, 3)
	assert.GreaterOrEqual(t, rep.starts[2].Sub(begin), 40*time.Millisecond)
}
