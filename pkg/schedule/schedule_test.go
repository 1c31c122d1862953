package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTask struct {
	name  string
	ticks []uint64
	err   error
}

func (t *countingTask) Name() string { return t.name }

func (t *countingTask) Run(_ context.Context, tick uint64) error {
	t.ticks = append(t.ticks, tick)
	return t.err
}

func TestScheduler_Every(t *testing.T) {
	s := New()
	fast := &countingTask{name: "fast"}
	slow := &countingTask{name: "slow"}
	require.NoError(t, s.Every(2, fast))
	require.NoError(t, s.Every(5, slow))

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Tick(context.Background()))
	}

	assert.Equal(t, []uint64{2, 4, 6, 8, 10}, fast.ticks)
	assert.Equal(t, []uint64{5, 10}, slow.ticks)
	assert.Equal(t, uint64(10), s.Current())
}

func TestScheduler_RejectsZeroPeriod(t *testing.T) {
	s := New()
	assert.Error(t, s.Every(0, &countingTask{name: "never"}))
}

func TestScheduler_FailuresAreIsolated(t *testing.T) {
	boom := errors.New("boom")
	s := New()
	bad := &countingTask{name: "bad", err: boom}
	good := &countingTask{name: "good"}
	require.NoError(t, s.Every(1, bad))
	require.NoError(t, s.Every(1, good))

	err := s.Tick(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
	assert.Len(t, good.ticks, 1)

	st := s.State().(State)
	require.Len(t, st.Tasks, 2)
	assert.Equal(t, uint64(1), st.Tasks[0].Failures)
	assert.Equal(t, "boom", st.Tasks[0].LastError)
	assert.Empty(t, st.Tasks[1].LastError)
	assert.Equal(t, "scheduler", s.ComponentType())
}

func TestTaskFunc(t *testing.T) {
	var got uint64
	task := TaskFunc{Label: "fn", Fn: func(_ context.Context, tick uint64) error {
		got = tick
		return nil
	}}
	s := New()
	require.NoError(t, s.Every(1, task))
	require.NoError(t, s.Tick(context.Background()))
	assert.Equal(t, "fn", task.Name())
	assert.Equal(t, uint64(1), got)
}

type tickCounter struct {
	n   atomic.Uint64
	err error
}

func (c *tickCounter) Tick(context.Context) error {
	c.n.Add(1)
	return c.err
}

func TestRunner(t *testing.T) {
	t.Run("Stops At Tick Limit", func(t *testing.T) {
		target := &tickCounter{}
		r := &Runner{Target: target, Interval: time.Millisecond, MaxTicks: 3}
		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, uint64(3), target.n.Load())
	})

	t.Run("Cancellation Is Not An Error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := &Runner{Target: &tickCounter{}, Interval: time.Hour}
		assert.NoError(t, r.Run(ctx))
	})

	t.Run("Stop On Error", func(t *testing.T) {
		boom := errors.New("boom")
		r := &Runner{Target: &tickCounter{err: boom}, Interval: time.Millisecond, StopOnError: true}
		assert.ErrorIs(t, r.Run(context.Background()), boom)
	})

	t.Run("Logs And Continues By Default", func(t *testing.T) {
		target := &tickCounter{err: errors.New("flaky")}
		r := &Runner{Target: target, Interval: time.Millisecond, MaxTicks: 2}
		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, uint64(2), target.n.Load())
	})

	t.Run("Invalid Setup", func(t *testing.T) {
		assert.Error(t, (&Runner{Interval: time.Second}).Run(context.Background()))
		assert.Error(t, (&Runner{Target: &tickCounter{}}).Run(context.Background()))
	})

	t.Run("Start In Background", func(t *testing.T) {
		target := &tickCounter{}
		r := &Runner{Target: target, Interval: time.Millisecond, MaxTicks: 2}
		select {
		case err := <-r.Start(context.Background()):
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("runner did not finish")
		}
		assert.Equal(t, uint64(2), target.n.Load())
	})
}
