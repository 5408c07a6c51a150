package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"foreground_enter", "foreground_exit", "low_memory", "terminate"} {
		e, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, Event(s), e)
	}

	_, err := Parse("resume")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestBus_DeliversInOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string

	bus.Subscribe("first", func(ctx context.Context, e Event) error {
		got = append(got, "first:"+string(e))
		return nil
	})
	bus.Subscribe("second", func(ctx context.Context, e Event) error {
		got = append(got, "second:"+string(e))
		return nil
	})

	ctx := context.Background()
	assert.Zero(t, bus.Publish(ctx, ForegroundEnter))
	assert.Zero(t, bus.Publish(ctx, ForegroundExit))

	assert.Equal(t, []string{
		"first:foreground_enter",
		"second:foreground_enter",
		"first:foreground_exit",
		"second:foreground_exit",
	}, got)
}

func TestBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(nil)
	calls := 0

	bus.Subscribe("broken", func(ctx context.Context, e Event) error {
		calls++
		return errors.New("write failed")
	})
	bus.Subscribe("ok", func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	failed := bus.Publish(context.Background(), Terminate)

	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, calls, "each handler runs exactly once, no retries")
}

func TestBus_NoSubscribers(t *testing.T) {
	assert.Zero(t, NewBus(nil).Publish(context.Background(), LowMemory))
}
