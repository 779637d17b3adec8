package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, time.January, 5, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-05", DateKey(ts))

	assert.True(t, IsDateKey("2024-02-29"))
	assert.False(t, IsDateKey("2023-02-29"))
	assert.False(t, IsDateKey("2024-1-5"))
	assert.False(t, IsDateKey("today"))
}

func TestCloneIsDeep(t *testing.T) {
	orig := TodosByDate{"2024-01-01": {{ID: "a", Text: "milk"}}}
	cp := orig.Clone()
	cp["2024-01-01"][0].Done = true
	cp["2024-01-02"] = nil

	assert.False(t, orig["2024-01-01"][0].Done)
	assert.NotContains(t, orig, "2024-01-02")
}

func TestSnapshotCloneFillsNilMaps(t *testing.T) {
	s := Snapshot{}.Clone()
	require.NotNil(t, s.TodosByDate)
	require.NotNil(t, s.MessagesByDate)
}

func TestSnapshotValidate(t *testing.T) {
	now := time.Now()
	valid := Snapshot{
		TodosByDate: TodosByDate{"2024-01-01": {{ID: "1", Text: ""}}},
		MessagesByDate: MessagesByDate{"2024-01-01": {
			{ID: "m1", Text: "hi", Sender: SenderUser, Timestamp: now},
			{ID: "m2", Text: "hello", Sender: SenderAI, Timestamp: now},
		}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		snap Snapshot
	}{
		{"bad todo date", Snapshot{TodosByDate: TodosByDate{"01/01/2024": nil}}},
		{"missing todo id", Snapshot{TodosByDate: TodosByDate{"2024-01-01": {{Text: "x"}}}}},
		{"bad message date", Snapshot{MessagesByDate: MessagesByDate{"yesterday": nil}}},
		{"unknown sender", Snapshot{MessagesByDate: MessagesByDate{"2024-01-01": {{ID: "m", Sender: "bot"}}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.snap.Validate())
		})
	}
}
