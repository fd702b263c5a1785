package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishCallsEverySubscriber(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp недоступен")
	})
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 100)
		return nil
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBus_ListenerSurvivesCancelledRequestContext(t *testing.T) {
	bus := New(zap.NewNop())
	var ctxErr atomic.Value

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		ctxErr.Store(fmtErr(ctx.Err()))
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{})
	bus.Wait()

	assert.Equal(t, "<nil>", ctxErr.Load())
}

func TestBus_PanicIsRecovered(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), pingEvent{})
		bus.Wait()
	})
}

func fmtErr(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
