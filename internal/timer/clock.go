package timer

import "time"

// Ticker 可停止的周期时钟，便于测试中替换
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock 创建周期时钟
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock 基于 time.Ticker 的默认实现
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{inner: time.NewTicker(d)}
}

type systemTicker struct {
	inner *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time {
	return t.inner.C
}

func (t *systemTicker) Stop() {
	t.inner.Stop()
}

// tickC 返回 ticker 的通道，ticker 为空时返回 nil 通道（select 永远不会选中）
func tickC(t Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}
