// Package connectivity tracks whether the device currently has
// validated internet access and publishes transitions to subscribers.
package connectivity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Topic is the bus topic connectivity transitions are published on.
const Topic = "connectivity:changed"

// ProbeFunc reports whether internet capability is currently
// validated. It must be a real reachability check, not an
// interface-up test.
type ProbeFunc func(ctx context.Context) bool

// Observer holds the Online/Offline state machine. Platform callbacks
// (or the built-in poller) feed SetOnline; consecutive identical
// states are deduplicated so no-op changes fire no events. There is
// deliberately no debounce: every callback updates state immediately.
type Observer struct {
	bus      EventBus.Bus
	online   atomic.Bool
	probe    ProbeFunc
	interval time.Duration
	stop     chan struct{}
}

// NewObserver samples the probe synchronously so the first subscriber
// is never left without a value.
func NewObserver(probe ProbeFunc, interval time.Duration) *Observer {
	o := &Observer{
		bus:      EventBus.New(),
		probe:    probe,
		interval: interval,
		stop:     make(chan struct{}),
	}
	o.online.Store(probe(context.Background()))
	return o
}

// IsOnline returns the current connectivity state.
func (o *Observer) IsOnline() bool {
	return o.online.Load()
}

// SetOnline records a connectivity transition. Publishing happens only
// when the state actually flips.
func (o *Observer) SetOnline(online bool) {
	if o.online.Swap(online) == online {
		return
	}
	zap.L().Info("connectivity changed", zap.Bool("online", online))
	o.bus.Publish(Topic, online)
}

// Subscribe registers fn for transitions and delivers the current
// state to it synchronously before returning.
func (o *Observer) Subscribe(fn func(online bool)) error {
	if err := o.bus.Subscribe(Topic, fn); err != nil {
		return err
	}
	fn(o.IsOnline())
	return nil
}

// Unsubscribe removes a previously subscribed handler.
func (o *Observer) Unsubscribe(fn func(online bool)) error {
	return o.bus.Unsubscribe(Topic, fn)
}

// Start runs the capability poller until Stop is called or the context
// is cancelled.
func (o *Observer) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-o.stop:
				return
			case <-ticker.C:
				o.SetOnline(o.probe(ctx))
			}
		}
	}()
}

// Stop terminates the poller. Safe to call once.
func (o *Observer) Stop() {
	close(o.stop)
}
