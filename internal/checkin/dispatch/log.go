// Package dispatch delivers finished check-ins to the messaging channel.
package dispatch

import (
	"context"
	"log/slog"

	"ficha/internal/checkin/models"
	"ficha/pkg/platform/privacy"
)

// LogDispatcher records a delivery without its payload. The guest opens the
// deep link on their own device, so the server only needs an audit line.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, delivery models.Delivery) {
	d.logger.InfoContext(ctx, "check-in delivered",
		"tenant_id", delivery.TenantID,
		"destination", privacy.MaskDigits(delivery.ContactHandle, 4),
		"link_bytes", len(delivery.DeepLink),
	)
}
