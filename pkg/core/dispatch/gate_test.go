package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wsafety/desk/pkg/core/model"
)

func TestGate(t *testing.T) {
	var g Gate
	assert.False(t, g.Busy())

	assert.True(t, g.TryAcquire("1"))
	assert.True(t, g.Busy())
	assert.False(t, g.TryAcquire("2"))
	assert.False(t, g.TryAcquire("1"))

	holder, held := g.Holder()
	assert.True(t, held)
	assert.Equal(t, model.ID("1"), holder)

	g.Release()
	assert.False(t, g.Busy())
	_, held = g.Holder()
	assert.False(t, held)

	g.Release()
	assert.True(t, g.TryAcquire("2"))
}

func TestGate_OneWinner(t *testing.T) {
	var (
		g    Gate
		wins atomic.Int32
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("x") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
