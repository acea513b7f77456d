package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const notifyEmailTimeout = 5 * time.Second

// Notify sends a message asynchronously. Delivery failures are logged, never
// surfaced: a reservation outcome must not depend on the mail provider.
func Notify(ctx context.Context, client Sender, recipient string, message Message, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, notifyEmailTimeout)
		defer cancel()
		if sendCtx.Err() != nil {
			return
		}
		if err := client.Send(sendCtx, recipient, message.Subject, message.Body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send email")
		}
	}()
}
