package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/repositories"
	"github.com/daybook/daybook/internal/utils"
	"github.com/google/uuid"
)

const (
	ExportURLTTL = 15 * time.Minute

	exportNonceBytes = 9
)

// Archive is object storage for exports.
type Archive interface {
	Put(ctx context.Context, key string, body []byte) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

type Export struct {
	Key       string
	URL       string
	ExpiresIn time.Duration
}

// ExportService writes a user's whole document to object storage.
type ExportService struct {
	docs    DocumentStore
	archive Archive
	now     func() time.Time
	nonce   func() (string, error)
}

// NewExportService accepts a nil archive; exports then report unavailable.
func NewExportService(docs DocumentStore, archive Archive) *ExportService {
	return &ExportService{
		docs:    docs,
		archive: archive,
		now:     time.Now,
		nonce:   func() (string, error) { return utils.RandomToken(exportNonceBytes) },
	}
}

func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) (*Export, error) {
	if s.archive == nil {
		return nil, apperr.Unavailable("Export storage is not configured")
	}

	doc, err := s.docs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(doc.Snapshot())
	if err != nil {
		return nil, apperr.Internal("Failed to encode export", err)
	}

	nonce, err := s.nonce()
	if err != nil {
		return nil, apperr.Internal("Failed to name export", err)
	}
	key := repositories.ExportKey(userID.String(), s.now(), nonce)
	if err := s.archive.Put(ctx, key, body); err != nil {
		return nil, apperr.Upstream("Failed to store export", err)
	}
	url, err := s.archive.PresignGet(ctx, key, ExportURLTTL)
	if err != nil {
		return nil, apperr.Upstream("Failed to generate download URL", err)
	}
	return &Export{Key: key, URL: url, ExpiresIn: ExportURLTTL}, nil
}
