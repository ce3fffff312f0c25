package appstate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/infra/appstate"
	"github.com/skillcoder/specctl/internal/infra/pinger"
	"github.com/skillcoder/specctl/internal/infra/shutdown/mocks"
)

var errDown = errors.New("down")

type stubPinger struct {
	name string
	err  error
}

func (p stubPinger) Name() string                 { return p.name }
func (p stubPinger) Ping(_ context.Context) error { return p.err }

func newState(t *testing.T) (*appstate.AppState, *pinger.Service) {
	t.Helper()

	ps := pinger.New(slog.Default(), time.Hour)

	return appstate.New(slog.Default(), time.Now(), make(chan os.Signal, 1), ps), ps
}

func TestAppState_Transitions(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s, _ := newState(t)

	require.Equal(t, appstate.StateInit, s.State())
	require.ErrorIs(t, s.SetRunning(ctx), appstate.ErrInvalidStateTransition)

	require.NoError(t, s.SetStarting(ctx))
	require.Equal(t, appstate.StateStarting, s.State())
	require.ErrorIs(t, s.SetStarting(ctx), appstate.ErrInvalidStateTransition)

	require.NoError(t, s.SetRunning(ctx))
	require.Equal(t, appstate.StateRunning, s.State())

	require.NoError(t, s.SetTerminating(ctx))
	require.NoError(t, s.SetTerminating(ctx))
	require.Equal(t, appstate.StateTerminating, s.State())

	require.NoError(t, s.Shutdown(ctx, time.Second))
	require.Equal(t, appstate.StateTerminated, s.State())
	require.ErrorIs(t, s.SetTerminating(ctx), appstate.ErrAlreadyTerminated)
	require.ErrorIs(t, s.SetStarting(ctx), appstate.ErrAlreadyTerminated)
}

func TestAppState_HealthAndReadiness(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s, _ := newState(t)

	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetStarting(ctx))
	require.True(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetRunning(ctx))
	require.True(t, s.IsHealthy())
	require.True(t, s.IsReady())

	require.NoError(t, s.SetTerminating(ctx))
	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())
}

func TestAppState_FailingComponent(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s, ps := newState(t)

	require.NoError(t, s.RegisterPinger(stubPinger{name: "ok"}))
	require.NoError(t, s.RegisterPinger(stubPinger{name: "cluster", err: errDown}))
	require.NoError(t, s.SetStarting(ctx))
	require.NoError(t, s.SetRunning(ctx))

	require.NoError(t, ps.Start(ctx))
	<-ps.Ready()

	t.Cleanup(func() { _ = ps.Shutdown(context.Background()) })

	stats := s.AllStats()
	require.Len(t, stats, 2)
	require.True(t, stats["ok"].Ready)
	require.False(t, stats["cluster"].Ready)
	require.Equal(t, errDown.Error(), stats["cluster"].LastError)

	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())
}

func TestAppState_Shutdown(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s, _ := newState(t)

	var order []string

	first := mocks.NewMockShutdowner(t)
	first.EXPECT().Name().Return("first").Maybe()
	first.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(context.Context) error {
		order = append(order, "first")

		return nil
	}).Once()

	second := mocks.NewMockShutdowner(t)
	second.EXPECT().Name().Return("second").Maybe()
	second.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(context.Context) error {
		order = append(order, "second")

		return errDown
	}).Once()

	s.RegisterShutdowner(first)
	s.RegisterShutdowner(second)

	err := s.Shutdown(ctx, time.Second)
	require.ErrorIs(t, err, errDown)
	require.Equal(t, []string{"second", "first"}, order)
	require.Equal(t, appstate.StateTerminated, s.State())
}
