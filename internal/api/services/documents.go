package services

import (
	"context"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
)

// DocumentStore is the User Document Store contract.
type DocumentStore interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserData, error)
	ReplaceAll(ctx context.Context, userID uuid.UUID, snap models.Snapshot) (*models.UserData, error)
}

type DocumentService struct {
	store   DocumentStore
	metrics *metrics.Metrics
}

func NewDocumentService(store DocumentStore, m *metrics.Metrics) *DocumentService {
	return &DocumentService{store: store, metrics: m}
}

// ParseUserID validates a path user id.
func ParseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid user id")
	}
	return id, nil
}

func (s *DocumentService) Get(ctx context.Context, userID uuid.UUID) (*models.UserData, error) {
	return s.store.GetOrCreate(ctx, userID)
}

// Replace validates snap and overwrites the whole document with it.
func (s *DocumentService) Replace(ctx context.Context, userID uuid.UUID, snap models.Snapshot) (*models.UserData, error) {
	if err := snap.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	doc, err := s.store.ReplaceAll(ctx, userID, snap.Clone())
	s.metrics.DocumentWrites.WithLabelValues(metrics.Result(err)).Inc()
	return doc, err
}
