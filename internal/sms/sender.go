package sms

import (
	"context"

	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
)

// Sender delivers a verification code to a phone number
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending them.
// Development only.
type LogSender struct{}

// NewLogSender creates a LogSender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the code
func (s *LogSender) Send(_ context.Context, phone, code string) error {
	pkglogger.GetLogger().Info().
		Str("phone", MaskPhone(phone)).
		Str("code", code).
		Msg("sms code issued (log sender)")
	return nil
}

// MaskPhone hides the middle digits of a phone number for logging
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return "***"
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}
