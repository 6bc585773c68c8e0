package notify

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := New(WithSink(LogSink(zap.New(core))))

	n.Begin("verification.reject", "Rejecting user...").Fail(errors.New("boom"), "Error rejecting user.")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Operation issued", entries[0].Message)
	assert.Equal(t, "Operation failed", entries[1].Message)
	assert.Equal(t, "verification.reject", entries[1].ContextMap()["operation"])
	assert.Equal(t, "Error rejecting user.", entries[1].ContextMap()["text"])
}

func TestSwitch_WriterKeepsEveryMessage(t *testing.T) {
	var out bytes.Buffer
	n := New(WithSink(NewSwitch(WriterSink(&out))))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n.Begin("verification.verify", "Verifying user...").Succeed(fmt.Sprintf("verified %d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(out.String(), "… Verifying user..."))
	assert.Equal(t, 50, strings.Count(out.String(), "✓ verified"))
}

func TestSwitch_Route(t *testing.T) {
	var out bytes.Buffer
	feed := NewQueue(5)
	sw := NewSwitch(WriterSink(&out))
	n := New(WithSink(sw))

	restore := sw.Route(feed)
	n.Begin("dispatch.load", "Loading assigned complaints...")
	restore()
	n.Begin("dispatch.load", "Loading again...")

	require.Equal(t, 1, feed.Len())
	assert.Equal(t, "Loading assigned complaints...", feed.Drain()[0].Text)
	assert.Equal(t, "… Loading again...\n", out.String())
}
