package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks item ids only. Empty text is allowed: an edit may clear it.
func (t TodoItem) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
	)
}

func (m JournalMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Sender, validation.Required, validation.In(SenderUser, SenderAI)),
	)
}

// Validate checks every date-key and every item of both mappings.
func (s Snapshot) Validate() error {
	for date, list := range s.TodosByDate {
		if !IsDateKey(date) {
			return fmt.Errorf("todosByDate: invalid date-key %q", date)
		}
		for i, item := range list {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("todosByDate[%s][%d]: %w", date, i, err)
			}
		}
	}
	for date, list := range s.MessagesByDate {
		if !IsDateKey(date) {
			return fmt.Errorf("messagesByDate: invalid date-key %q", date)
		}
		for i, msg := range list {
			if err := msg.Validate(); err != nil {
				return fmt.Errorf("messagesByDate[%s][%d]: %w", date, i, err)
			}
		}
	}
	return nil
}
