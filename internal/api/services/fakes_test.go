package services

import (
	"context"
	"sync"
	"time"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return apperr.ErrDuplicateUsername
	}
	u.ID = uuid.New()
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Exists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

type memDocs struct {
	docs map[uuid.UUID]*models.UserData
	err  error
}

func (m *memDocs) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.UserData, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.docs == nil {
		m.docs = map[uuid.UUID]*models.UserData{}
	}
	d, ok := m.docs[userID]
	if !ok {
		d = &models.UserData{UserID: userID, TodosByDate: models.TodosByDate{}, MessagesByDate: models.MessagesByDate{}}
		m.docs[userID] = d
	}
	return d, nil
}

func (m *memDocs) ReplaceAll(_ context.Context, userID uuid.UUID, snap models.Snapshot) (*models.UserData, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.docs == nil {
		m.docs = map[uuid.UUID]*models.UserData{}
	}
	d := &models.UserData{UserID: userID, TodosByDate: snap.TodosByDate, MessagesByDate: snap.MessagesByDate}
	m.docs[userID] = d
	return d, nil
}

type fakeModel struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.reply, f.err
}

type fakeArchive struct {
	puts   map[string][]byte
	putErr error
}

func (f *fakeArchive) Put(_ context.Context, key string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = body
	return nil
}

func (f *fakeArchive) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.test/" + key + "?sig=1", nil
}
