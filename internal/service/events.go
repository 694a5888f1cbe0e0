package service

import (
	"context"
	"log/slog"
	"time"

	"ougadgets/internal/events"
)

// publish announces a committed change. Failures are logged and swallowed.
func publish(ctx context.Context, p events.Publisher, ev events.Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.Publish(ctx, ev); err != nil {
		slog.Warn("Failed to publish event", "type", ev.Type, "phone_id", ev.PhoneID, "error", err)
	}
}
