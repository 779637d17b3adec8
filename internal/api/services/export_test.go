package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	userID := uuid.New()
	docs := &memDocs{}
	_, err := docs.ReplaceAll(context.Background(), userID, models.Snapshot{
		TodosByDate:    models.TodosByDate{"2024-01-01": {{ID: "1", Text: "milk"}}},
		MessagesByDate: models.MessagesByDate{},
	})
	require.NoError(t, err)

	archive := &fakeArchive{}
	svc := NewExportService(docs, archive)
	svc.now = func() time.Time { return time.Unix(42, 0) }
	svc.nonce = func() (string, error) { return "n0nce", nil }

	exp, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+userID.String()+"/19700101T000042Z-n0nce.json", exp.Key)
	assert.True(t, strings.Contains(exp.URL, exp.Key))
	assert.Equal(t, ExportURLTTL, exp.ExpiresIn)

	var stored models.Snapshot
	require.NoError(t, json.Unmarshal(archive.puts[exp.Key], &stored))
	assert.Equal(t, "milk", stored.TodosByDate["2024-01-01"][0].Text)
}

func TestExportErrors(t *testing.T) {
	_, err := NewExportService(&memDocs{}, nil).Export(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	_, err = NewExportService(&memDocs{}, &fakeArchive{putErr: errors.New("denied")}).Export(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}
