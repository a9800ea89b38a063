package realtime

import "context"

// Subscribe calls onChange for every change on topic until ctx is done or
// the returned cancel is called. onChange runs on a single goroutine.
func Subscribe(ctx context.Context, hub *Hub, topic string, onChange func(Change)) (cancel func()) {
	ctx, stop := context.WithCancel(ctx)
	ch, cleanup := hub.Subscribe(topic)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-ch:
				if !ok {
					return
				}
				onChange(change)
			}
		}
	}()

	return func() {
		stop()
		<-done
		cleanup()
	}
}
