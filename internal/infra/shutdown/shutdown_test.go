package shutdown_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/infra/shutdown"
	"github.com/skillcoder/specctl/internal/infra/shutdown/mocks"
)

func TestGracefulShutdown(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("empty list returns nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, shutdown.GracefulShutdown(t.Context(), logger, time.Second, nil))
	})

	t.Run("reverse order and joined errors", func(t *testing.T) {
		t.Parallel()

		var order []string

		errSecond := errors.New("second failed")

		first := mocks.NewMockShutdowner(t)
		first.EXPECT().Name().Return("first")
		first.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(context.Context) error {
			order = append(order, "first")

			return context.DeadlineExceeded
		}).Once()

		second := mocks.NewMockShutdowner(t)
		second.EXPECT().Name().Return("second")
		second.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(context.Context) error {
			order = append(order, "second")

			return errSecond
		}).Once()

		third := mocks.NewMockShutdowner(t)
		third.EXPECT().Name().Return("third")
		third.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(context.Context) error {
			order = append(order, "third")

			return nil
		}).Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, time.Second,
			[]shutdown.Shutdowner{first, second, third})

		require.ErrorIs(t, err, errSecond)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("cancelled origin still shuts down", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return("svc")
		m.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(ctx context.Context) error {
			return ctx.Err()
		}).Once()

		require.NoError(t, shutdown.GracefulShutdown(ctx, logger, time.Second, []shutdown.Shutdowner{m}))
	})
}

func TestHandler_HandleSignals(t *testing.T) {
	t.Parallel()

	quit := make(chan os.Signal, 1)
	h := shutdown.New(slog.Default(), quit)

	require.NoError(t, h.CheckTermination(t.Context()))

	cancelled := make(chan struct{})

	go h.HandleSignals(t.Context(), func() { close(cancelled) })

	quit <- syscall.SIGTERM

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("cancel was not called")
	}
}

func TestHandler_CheckTermination(t *testing.T) {
	t.Parallel()

	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGINT

	require.Error(t, shutdown.New(slog.Default(), quit).CheckTermination(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, shutdown.New(slog.Default(), make(chan os.Signal)).CheckTermination(ctx), context.Canceled)
}
