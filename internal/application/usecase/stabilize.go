package usecase

import (
	"context"
	"time"
)

// DefaultStabilizeDelay is how long loading-state emissions are held back.
const DefaultStabilizeDelay = 50 * time.Millisecond

// Stabilize coalesces bursts of loading-state updates. An update that still
// has loading slots is held for delay and replaced by any newer update that
// arrives meanwhile. Settled updates and errors are forwarded at once and
// supersede whatever was held. Order is preserved. The output closes after
// in closes and the last held update is flushed, or when ctx is done.
// A non-positive delay forwards everything. Reading from in never waits
// on the consumer.
func Stabilize(ctx context.Context, in <-chan PaneUpdate, delay time.Duration) <-chan PaneUpdate {
	out := make(chan PaneUpdate)
	go func() {
		defer close(out)

		var (
			held    *PaneUpdate
			timer   *time.Timer
			timerC  <-chan time.Time
			source  = in
			backlog []PaneUpdate
		)
		stopTimer := func() {
			if timer != nil {
				timer.Stop()
			}
			timer, timerC = nil, nil
		}
		defer stopTimer()

		for {
			if source == nil && held == nil && len(backlog) == 0 {
				return
			}

			var sendC chan PaneUpdate
			var next PaneUpdate
			if len(backlog) > 0 {
				sendC = out
				next = backlog[0]
			}

			select {
			case <-ctx.Done():
				return

			case sendC <- next:
				backlog = backlog[1:]

			case u, ok := <-source:
				if !ok {
					source = nil
					if held != nil {
						backlog = append(backlog, *held)
						held = nil
						stopTimer()
					}
					continue
				}
				if u.Settled || u.Err != nil || delay <= 0 {
					held = nil
					stopTimer()
					backlog = append(backlog, u)
					continue
				}
				held = &u
				if timer == nil {
					timer = time.NewTimer(delay)
					timerC = timer.C
				}

			case <-timerC:
				timer, timerC = nil, nil
				if held != nil {
					backlog = append(backlog, *held)
					held = nil
				}
			}
		}
	}()
	return out
}
