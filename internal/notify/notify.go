package notify

import (
	"context"
	"io"
	"log"
)

// Sender delivers a short text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, message string) error
}

// LogSender writes messages to the logger instead of sending them. Used
// when no SMS credentials are configured.
type LogSender struct {
	Logger *log.Logger
}

func (s *LogSender) Send(_ context.Context, to, message string) error {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("sms (not sent) to=%s body=%q", to, message)
	return nil
}
