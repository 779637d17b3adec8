package syncclient

import (
	"context"
	"log/slog"
	"strings"

	"github.com/daybook/daybook/internal/models"
)

// TailSeparator joins the unsummarized entries sent for one summary.
const TailSeparator = "\n\n---\n\n"

// Summarizer produces one reply for a block of journal text.
type Summarizer interface {
	Summarize(ctx context.Context, messages string) (string, error)
}

// UnsummarizedTail returns the texts of user messages written after the
// most recent AI message, oldest first.
func UnsummarizedTail(list []models.JournalMessage) []string {
	start := 0
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Sender == models.SenderAI {
			start = i + 1
			break
		}
	}

	var tail []string
	for _, msg := range list[start:] {
		if msg.Sender == models.SenderUser {
			tail = append(tail, msg.Text)
		}
	}
	return tail
}

// RequestSummary asks for a reply to the date's unsummarized entries and
// appends it as an AI message. With nothing new to summarize no request is
// made. Failures are logged and leave the journal untouched.
func RequestSummary(ctx context.Context, s *Session, sum Summarizer, date string) (models.JournalMessage, bool) {
	tail := UnsummarizedTail(s.Messages(date))
	if len(tail) == 0 {
		return models.JournalMessage{}, false
	}

	text, err := sum.Summarize(ctx, strings.Join(tail, TailSeparator))
	if err != nil {
		s.log.Warn("journal summary failed", slog.String("date", date), slog.String("error", err.Error()))
		return models.JournalMessage{}, false
	}
	if strings.TrimSpace(text) == "" {
		s.log.Warn("journal summary was empty", slog.String("date", date))
		return models.JournalMessage{}, false
	}

	msg := s.NewMessage(text, models.SenderAI)
	if !s.AddMessage(date, msg) {
		return models.JournalMessage{}, false
	}
	return msg, true
}
