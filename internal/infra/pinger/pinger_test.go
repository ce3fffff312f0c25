package pinger

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	name     string
	err      error
	delay    time.Duration
	calls    atomic.Int32
	critical *bool
	timeout  time.Duration
}

func (p *stubPinger) Name() string {
	return p.name
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.calls.Add(1)

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay):
		}
	}

	return p.err
}

type optionalPinger struct {
	*stubPinger
}

func (p optionalPinger) PingerReadyCritical() bool {
	return *p.critical
}

func (p optionalPinger) PingerCritical() bool {
	return *p.critical
}

func (p optionalPinger) PingerTimeout() time.Duration {
	return p.timeout
}

func startAndWait(t *testing.T, s *Service) {
	t.Helper()

	require.NoError(t, s.Start(t.Context()))

	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("pinger did not finish the first round")
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	s := New(slog.Default(), time.Second)

	require.ErrorIs(t, s.Register(nil), ErrNilPinger)
	require.NoError(t, s.Register(&stubPinger{name: "a"}))
	require.ErrorIs(t, s.Register(&stubPinger{name: "a"}), ErrAlreadyRegistered)

	require.NoError(t, s.Shutdown(t.Context()))

	_, err := s.Stats("missing")
	require.ErrorIs(t, err, ErrUnknownPinger)

	st, err := s.Stats("a")
	require.NoError(t, err)
	require.True(t, st.Ready)
	require.True(t, st.Healthy)
	require.Zero(t, st.Success.Count)
}

func TestService_RunAndShutdown(t *testing.T) {
	t.Parallel()

	s := New(slog.Default(), 10*time.Millisecond)
	ok := &stubPinger{name: "ok"}
	failing := &stubPinger{name: "failing", err: errors.New("down")}

	require.NoError(t, s.Register(ok))
	require.NoError(t, s.Register(failing))

	startAndWait(t, s)

	require.Eventually(t, func() bool { return ok.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Shutdown(t.Context()))
	require.NoError(t, s.Shutdown(t.Context()))

	stats := s.AllStats()
	require.Len(t, stats, 2)

	require.True(t, stats["ok"].Ready)
	require.Positive(t, stats["ok"].Success.Count)
	require.Empty(t, stats["ok"].LastError)

	require.False(t, stats["failing"].Ready)
	require.False(t, stats["failing"].Healthy)
	require.Equal(t, "down", stats["failing"].LastError)
	require.False(t, stats["failing"].LastErrorAt.IsZero())
	require.LessOrEqual(t, stats["failing"].Failure.Count, failureWindow)
}

func TestService_OptionalInterfaces(t *testing.T) {
	t.Parallel()

	notCritical := false
	slow := optionalPinger{&stubPinger{
		name:     "slow",
		delay:    time.Second,
		critical: &notCritical,
		timeout:  20 * time.Millisecond,
	}}

	s := New(slog.Default(), time.Hour)
	require.NoError(t, s.Register(slow))

	start := time.Now()
	startAndWait(t, s)
	require.Less(t, time.Since(start), 500*time.Millisecond)

	st, err := s.Stats("slow")
	require.NoError(t, err)
	require.Contains(t, st.LastError, context.DeadlineExceeded.Error())
	require.True(t, st.Ready)
	require.True(t, st.Healthy)

	require.NoError(t, s.Shutdown(t.Context()))
}

func TestRing(t *testing.T) {
	t.Parallel()

	r := newRing(3)
	require.Empty(t, r.values())

	r.add(1)
	r.add(2)
	require.Equal(t, []time.Duration{1, 2}, r.values())

	r.add(3)
	r.add(4)
	r.add(5)
	require.Equal(t, []time.Duration{3, 4, 5}, r.values())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give []time.Duration
		want Latency
	}{
		{name: "empty", give: nil, want: Latency{}},
		{
			name: "single",
			give: []time.Duration{5},
			want: Latency{Count: 1, Median: 5, Average: 5, P90: 5, P99: 5},
		},
		{
			name: "even count",
			give: []time.Duration{4, 1, 3, 2},
			want: Latency{Count: 4, Median: 2, Average: 2, P90: 4, P99: 4},
		},
		{
			name: "ten values",
			give: []time.Duration{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			want: Latency{Count: 10, Median: 5, Average: 5, P90: 9, P99: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, summarize(tt.give))
		})
	}
}
