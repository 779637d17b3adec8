package services

import (
	"context"
	"testing"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	id := uuid.New()
	got, err := ParseUserID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUserID("65a1f0c2e4b0a1b2c3d4e5f6")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDocumentService_Replace(t *testing.T) {
	m := metrics.New()
	svc := NewDocumentService(&memDocs{}, m)
	ctx := context.Background()
	userID := uuid.New()

	snap := models.Snapshot{TodosByDate: models.TodosByDate{"2024-01-01": {{ID: "1", Text: "milk"}}}}
	doc, err := svc.Replace(ctx, userID, snap)
	require.NoError(t, err)
	assert.Equal(t, snap.TodosByDate, doc.TodosByDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentWrites.WithLabelValues(metrics.ResultSuccess)))

	_, err = svc.Replace(ctx, userID, models.Snapshot{TodosByDate: models.TodosByDate{"bad": nil}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, snap.TodosByDate, got.TodosByDate)
}

func TestDocumentService_ReplaceFailureCounted(t *testing.T) {
	m := metrics.New()
	svc := NewDocumentService(&memDocs{err: apperr.Internal("db down", nil)}, m)

	_, err := svc.Replace(context.Background(), uuid.New(), models.Snapshot{})
	assert.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentWrites.WithLabelValues(metrics.ResultFailure)))
}
