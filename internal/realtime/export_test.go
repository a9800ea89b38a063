package realtime

import "time"

func (r *Relay) Dispatch(payload string) { r.dispatch(payload) }

func (h *Handler) SetKeepalive(d time.Duration) { h.keepalive = d }
