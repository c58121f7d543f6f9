package service

import (
	"context"
	"log/slog"

	"ffwpu/pkg/email"
	"ffwpu/pkg/requestcontext"
)

// LogDelivery records that a delivery was requested without sending anything.
// It stands in until a mail channel is wired.
type LogDelivery struct {
	logger *slog.Logger
}

func NewLogDelivery(logger *slog.Logger) *LogDelivery {
	return &LogDelivery{logger: logger}
}

func (d *LogDelivery) Deliver(ctx context.Context, del Delivery) error {
	d.logger.InfoContext(ctx, "recovery token delivery requested",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", del.AccountID.String(),
		"masked_email", email.MaskAddress(del.Email),
		"expires_at", del.ExpiresAt,
	)
	return nil
}
