package models

import (
	"time"
)

type TodoItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Sender tells who authored a journal message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type JournalMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// TodosByDate maps a date-key to that day's todos in display order.
type TodosByDate map[string][]TodoItem

// MessagesByDate maps a date-key to that day's journal messages in chat order.
type MessagesByDate map[string][]JournalMessage

// Clone returns a deep copy; the lists of the copy share nothing with t.
func (t TodosByDate) Clone() TodosByDate {
	out := make(TodosByDate, len(t))
	for date, list := range t {
		out[date] = append([]TodoItem(nil), list...)
	}
	return out
}

func (m MessagesByDate) Clone() MessagesByDate {
	out := make(MessagesByDate, len(m))
	for date, list := range m {
		out[date] = append([]JournalMessage(nil), list...)
	}
	return out
}

// Snapshot is the wire form of a user's document: both mappings, always complete.
type Snapshot struct {
	TodosByDate    TodosByDate    `json:"todosByDate"`
	MessagesByDate MessagesByDate `json:"messagesByDate"`
}

// Clone deep-copies both mappings, turning nil maps into empty ones.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		TodosByDate:    s.TodosByDate.Clone(),
		MessagesByDate: s.MessagesByDate.Clone(),
	}
}
