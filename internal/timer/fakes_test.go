package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GameTimer/internal/models"
)

type fakeTicker struct {
	interval time.Duration
	c        chan time.Time
	stopped  chan struct{}
	once     sync.Once
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.once.Do(func() { close(t.stopped) })
}

func (t *fakeTicker) isStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

// fire 投递一次 tick 并等待控制器接收；ticker 已停止时返回 false
func (t *fakeTicker) fire() bool {
	select {
	case <-t.stopped:
		return false
	default:
	}
	select {
	case t.c <- time.Now():
		return true
	case <-t.stopped:
		return false
	}
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{interval: d, c: make(chan time.Time), stopped: make(chan struct{})}
	c.tickers = append(c.tickers, t)
	return t
}

// active 返回指定周期的、仍在运行的最新 ticker
func (c *fakeClock) active(d time.Duration) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.tickers) - 1; i >= 0; i-- {
		t := c.tickers[i]
		if t.interval == d && !t.isStopped() {
			return t
		}
	}
	return nil
}

func (c *fakeClock) activeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

type fakePlayer struct {
	mu      sync.Mutex
	instant bool
	plays   []string
	pending []chan struct{}
	stops   int
}

func (p *fakePlayer) Play(cue string) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, cue)
	done := make(chan struct{})
	if p.instant {
		close(done)
	} else {
		p.pending = append(p.pending, done)
	}
	return done
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	p.completeLocked()
}

// finish 完成所有正在播放的提示音
func (p *fakePlayer) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completeLocked()
}

func (p *fakePlayer) completeLocked() {
	for _, done := range p.pending {
		close(done)
	}
	p.pending = nil
}

func (p *fakePlayer) played() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.plays...)
}

func (p *fakePlayer) stopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}

func startController(t *testing.T, player *fakePlayer) (*Controller, *fakeClock, context.CancelFunc) {
	t.Helper()
	clock := &fakeClock{}
	c := NewController(clock, player)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errc)
	})
	return c, clock, cancel
}

func waitState(t *testing.T, c *Controller, want models.TimerState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Snapshot().State == want
	}, 2*time.Second, time.Millisecond, "never reached state %s", want)
}

// startRunning 开始一局并等待进入 Running，返回倒计时 ticker
func startRunning(t *testing.T, c *Controller, clock *fakeClock, player *fakePlayer) *fakeTicker {
	t.Helper()
	c.Start()
	player.finish()
	waitState(t, c, models.StateRunning)
	ticker := clock.active(tickInterval)
	require.NotNil(t, ticker)
	return ticker
}

func fireN(t *testing.T, ticker *fakeTicker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, ticker.fire(), "tick %d was not accepted", i+1)
	}
}

func newTestContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}
