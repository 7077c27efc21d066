// AngelaMos | 2026
// mailer.go

package auth

import (
	"context"
	"log/slog"
)

type Mailer interface {
	SendInvitation(ctx context.Context, email, link string) error
}

// LogMailer writes invitations to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendInvitation(ctx context.Context, email, link string) error {
	m.logger.InfoContext(ctx, "invitation email",
		"to", email,
		"link", link,
	)
	return nil
}
