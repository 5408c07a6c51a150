package memwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
)

func sequenceReader(stats ...*mem.VirtualMemoryStat) Reader {
	i := 0
	return func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		if i >= len(stats) {
			return nil, errors.New("no more stats")
		}
		s := stats[i]
		i++
		return s, nil
	}
}

func stat(availablePercent uint64) *mem.VirtualMemoryStat {
	return &mem.VirtualMemoryStat{Total: 100, Available: availablePercent}
}

func TestWatcher_FiresOncePerLowEpisode(t *testing.T) {
	calls := 0
	w := New(10, time.Second, func(ctx context.Context) { calls++ }, nil)
	w.read = sequenceReader(stat(50), stat(5), stat(4), stat(30), stat(2))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		w.check(ctx)
	}

	assert.Equal(t, 2, calls)
}

func TestWatcher_ReadErrorIsIgnored(t *testing.T) {
	calls := 0
	w := New(10, time.Second, func(ctx context.Context) { calls++ }, nil)
	w.read = sequenceReader()

	w.check(context.Background())

	assert.Zero(t, calls)
	assert.False(t, w.low)
}

func TestWatcher_DisabledReturnsImmediately(t *testing.T) {
	w := New(0, time.Second, nil, nil)
	assert.NoError(t, w.Run(context.Background()))
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	w := New(10, time.Millisecond, nil, nil)
	w.read = func(ctx context.Context) (*mem.VirtualMemoryStat, error) { return stat(90), nil }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, w.Run(ctx))
}
