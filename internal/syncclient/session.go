// Package syncclient keeps a signed-in user's todos and journal in memory and
// mirrors every change to the server by replacing the whole document.
package syncclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
)

// Remote is the server side of a session.
type Remote interface {
	Fetch(ctx context.Context, id Identity) (models.Snapshot, error)
	Replace(ctx context.Context, id Identity, snap models.Snapshot) error
}

// Authenticator turns credentials into an Identity.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (Identity, error)
	Login(ctx context.Context, username, password string) (Identity, error)
}

type Options struct {
	Logger *slog.Logger
	// Now defaults to time.Now. The selected date starts at Now's date.
	Now func() time.Time
	// NewID defaults to uuid.NewString.
	NewID func() string
	// WriteTimeout bounds a single push. Zero means no limit.
	WriteTimeout time.Duration
	// PruneEmptyMessageDates removes a date from the journal when its last
	// message is deleted. Todo dates are always pruned.
	PruneEmptyMessageDates bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Session is one user's live document. Mutations update memory immediately
// and schedule a push; they never wait on the network.
type Session struct {
	remote Remote
	opts   Options
	log    *slog.Logger
	queue  *writeQueue

	mu           sync.RWMutex
	active       bool
	identity     Identity
	selectedDate string
	todos        models.TodosByDate
	messages     models.MessagesByDate
	onChange     func()
}

// Open pulls the user's document once and starts a session on it.
func Open(ctx context.Context, remote Remote, id Identity, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	snap, err := remote.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	snap = snap.Clone()

	s := &Session{
		remote:       remote,
		opts:         opts,
		log:          opts.Logger.With(slog.String("user_id", id.UserID)),
		active:       true,
		identity:     id,
		selectedDate: models.DateKey(opts.Now()),
		todos:        snap.TodosByDate,
		messages:     snap.MessagesByDate,
	}
	s.queue = newWriteQueue(s.push, s.log, opts.WriteTimeout)
	s.log.Info("session opened",
		slog.Int("todo_dates", len(s.todos)),
		slog.Int("message_dates", len(s.messages)))
	return s, nil
}

// SignIn logs in and opens a session for the returned identity.
func SignIn(ctx context.Context, auth Authenticator, remote Remote, username, password string, opts Options) (*Session, error) {
	id, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return Open(ctx, remote, id, opts)
}

// SignUp registers and opens a session. The new document is empty.
func SignUp(ctx context.Context, auth Authenticator, remote Remote, username, password string, opts Options) (*Session, error) {
	id, err := auth.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return Open(ctx, remote, id, opts)
}

// push sends the state as it is right now. After logout it sends nothing so
// a cleared session can never overwrite the server.
func (s *Session) push(ctx context.Context) error {
	s.mu.RLock()
	if !s.active {
		s.mu.RUnlock()
		return nil
	}
	id := s.identity
	snap := models.Snapshot{TodosByDate: s.todos.Clone(), MessagesByDate: s.messages.Clone()}
	s.mu.RUnlock()

	return s.remote.Replace(ctx, id, snap)
}

// mutate runs fn under the write lock and, if it changed anything,
// notifies the change hook and schedules a push.
func (s *Session) mutate(fn func() bool) bool {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return false
	}
	changed := fn()
	hook := s.onChange
	s.mu.Unlock()

	if !changed {
		return false
	}
	if hook != nil {
		hook()
	}
	s.queue.request()
	return true
}

// mutateDate is mutate for operations keyed by date. The server rejects a
// whole document over one bad date-key, so such keys never enter the state.
func (s *Session) mutateDate(date string, fn func() bool) bool {
	if !models.IsDateKey(date) {
		return false
	}
	return s.mutate(fn)
}

// OnChange registers fn to run after every applied mutation and on logout.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Active reports whether the session is still signed in.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Session) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

// SelectDate changes the date the UI is looking at. It is not persisted.
func (s *Session) SelectDate(date string) bool {
	if !models.IsDateKey(date) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.selectedDate = date
	return true
}

// Todos returns a copy of the todos for date.
func (s *Session) Todos(date string) []models.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TodoItem(nil), s.todos[date]...)
}

// Messages returns a copy of the journal for date.
func (s *Session) Messages(date string) []models.JournalMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.JournalMessage(nil), s.messages[date]...)
}

// Snapshot returns a deep copy of the whole document.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{TodosByDate: s.todos.Clone(), MessagesByDate: s.messages.Clone()}
}

// AddTodo appends a new undone todo. Blank text is ignored.
func (s *Session) AddTodo(date, text string) (models.TodoItem, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.TodoItem{}, false
	}
	item := models.TodoItem{ID: s.opts.NewID(), Text: text}
	ok := s.mutateDate(date, func() bool {
		s.todos[date] = append(append([]models.TodoItem(nil), s.todos[date]...), item)
		return true
	})
	return item, ok
}

func (s *Session) ToggleTodoDone(date, id string) bool {
	return s.mutateDate(date, func() bool {
		return updateTodo(s.todos, date, id, func(t *models.TodoItem) { t.Done = !t.Done })
	})
}

// EditTodo sets the text as given; an empty string is stored as is.
func (s *Session) EditTodo(date, id, text string) bool {
	return s.mutateDate(date, func() bool {
		return updateTodo(s.todos, date, id, func(t *models.TodoItem) { t.Text = text })
	})
}

func (s *Session) DeleteTodo(date, id string) bool {
	return s.mutateDate(date, func() bool {
		return removeTodo(s.todos, date, id)
	})
}

// SetTodosForDate replaces the whole list for date. A list holding an
// invalid item is refused as a whole.
func (s *Session) SetTodosForDate(date string, list []models.TodoItem) bool {
	for _, item := range list {
		if item.Validate() != nil {
			return false
		}
	}
	next := append([]models.TodoItem(nil), list...)
	return s.mutateDate(date, func() bool {
		s.todos[date] = next
		return true
	})
}

// MoveTodo takes the todo fromID out of its slot and puts it at the current
// index of toID, as a drag and drop does.
func (s *Session) MoveTodo(date, fromID, toID string) bool {
	return s.mutateDate(date, func() bool {
		list := s.todos[date]
		from, to := todoIndex(list, fromID), todoIndex(list, toID)
		if from < 0 || to < 0 || from == to {
			return false
		}
		s.todos[date] = Reorder(list, from, to)
		return true
	})
}

// NewMessage builds a message stamped with the session clock and a fresh id.
func (s *Session) NewMessage(text string, sender models.Sender) models.JournalMessage {
	return models.JournalMessage{
		ID:        s.opts.NewID(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.opts.Now().UTC(),
	}
}

// AddMessage appends msg as given. A message without an id or with an
// unknown sender is refused.
func (s *Session) AddMessage(date string, msg models.JournalMessage) bool {
	if msg.Validate() != nil {
		return false
	}
	return s.mutateDate(date, func() bool {
		s.messages[date] = append(append([]models.JournalMessage(nil), s.messages[date]...), msg)
		return true
	})
}

func (s *Session) UpdateMessage(date, id, text string) bool {
	return s.mutateDate(date, func() bool {
		return updateMessage(s.messages, date, id, text)
	})
}

func (s *Session) DeleteMessage(date, id string) bool {
	return s.mutateDate(date, func() bool {
		return removeMessage(s.messages, date, id, s.opts.PruneEmptyMessageDates)
	})
}

func (s *Session) SetMessagesForDate(date string, list []models.JournalMessage) bool {
	for _, msg := range list {
		if msg.Validate() != nil {
			return false
		}
	}
	next := append([]models.JournalMessage(nil), list...)
	return s.mutateDate(date, func() bool {
		s.messages[date] = next
		return true
	})
}

// ClearMessagesForDate removes the date from the journal entirely.
func (s *Session) ClearMessagesForDate(date string) bool {
	return s.mutateDate(date, func() bool {
		if _, ok := s.messages[date]; !ok {
			return false
		}
		delete(s.messages, date)
		return true
	})
}

// Flush waits for pending pushes to be attempted and returns the result of
// the last one.
func (s *Session) Flush(ctx context.Context) error {
	return s.queue.flush(ctx)
}

// Logout flushes pending pushes, then clears the identity and both
// collections. Later mutations are ignored. The returned error is the
// flush result; the session is cleared either way.
func (s *Session) Logout(ctx context.Context) error {
	err := s.queue.flush(ctx)

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = false
	s.identity = Identity{}
	s.todos = models.TodosByDate{}
	s.messages = models.MessagesByDate{}
	hook := s.onChange
	s.mu.Unlock()

	s.queue.close()
	if hook != nil {
		hook()
	}
	s.log.Info("session closed")
	return err
}
