package telemetry

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/mot/output"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestTimingCollectorReport(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(5 * time.Millisecond)

	timer := collector.Start("check")
	load := timer.Child("load")
	a := load.Child("parse a.mot")
	a.End()
	b := load.Child("parse b.mot")
	b.End()
	load.End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	expected := "check: 35ms\n" +
		"└─ load: 25ms\n" +
		"   ├─ parse a.mot: 5ms\n" +
		"   └─ parse b.mot: 5ms\n"
	assert.Equal(t, expected, buf.String())
}

func TestStartTimerNestsThroughContext(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	ctx, outer := StartTimer(ctx, "outer")
	_, inner := StartTimer(ctx, "inner")
	inner.End()
	outer.End()

	assert.Equal(t, 1, len(collector.roots))
	assert.Equal(t, "outer", collector.roots[0].name)
	assert.Equal(t, 1, len(collector.roots[0].children))
	assert.Equal(t, "inner", collector.roots[0].children[0].name)
}

func TestStartTimerWithoutCollector(t *testing.T) {
	ctx, timer := StartTimer(context.Background(), "nothing")
	_, ok := timer.(noOpTimer)
	assert.True(t, ok)

	_, child := StartTimer(ctx, "child")
	_, ok = child.(noOpTimer)
	assert.True(t, ok)
}

func TestEndIsIdempotent(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)

	timer := collector.Start("once")
	timer.End()
	timer.End()

	assert.Equal(t, time.Millisecond, collector.roots[0].duration())
}

func TestUnfinishedTimerReportsZero(t *testing.T) {
	collector := NewTimingCollector()
	collector.Start("pending")

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "pending: 0ms\n", buf.String())
}

func TestConcurrentChildren(t *testing.T) {
	collector := NewTimingCollector()
	timer := collector.Start("load")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Child("parse").End()
		}()
	}
	wg.Wait()
	timer.End()

	assert.Equal(t, 16, len(collector.roots[0].children))
}

func TestReportWithStyles(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(200 * time.Millisecond)

	timer := collector.Start("check")
	timer.Child("slow").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, output.NewStyles(&buf, output.ColorNever))
	assert.Equal(t, "check: 600ms\n└─ slow: 200ms\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", formatDuration(0))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}
