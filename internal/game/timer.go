package game

import (
	"sync"
	"time"
)

// phaseTimer drives one timed phase. It never counts down on its own:
// every tick recomputes the remaining time from the phase start
// instant, so a delayed tick self-corrects instead of drifting, and
// onExpire fires exactly once no matter how ticks land.
type phaseTimer struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// startPhaseTimer ticks at interval until remaining() hits zero or
// Stop is called. remaining is evaluated under the room lock by the
// caller-supplied closure; onTick and onExpire likewise take their
// own locking into their own hands.
func startPhaseTimer(interval time.Duration, remaining func() int, onTick func(int), onExpire func()) *phaseTimer {
	t := &phaseTimer{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				left := remaining()
				onTick(left)
				if left <= 0 {
					t.Stop()
					onExpire()
					return
				}
			}
		}
	}()

	return t
}

func (t *phaseTimer) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}
