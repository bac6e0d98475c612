package storage

import (
	"sync"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
)

// QuizSession is one chat's in-flight review session: the ordered due items
// and the cursor into them.
type QuizSession struct {
	ChatID  int64
	Queue   []entities.OrderedItem
	Pos     int
	Correct int
}

// Current returns the item the session is waiting on.
func (s *QuizSession) Current() (entities.OrderedItem, bool) {
	if s.Pos < 0 || s.Pos >= len(s.Queue) {
		return entities.OrderedItem{}, false
	}
	return s.Queue[s.Pos], true
}

// Advance moves to the next question, reporting whether one remains.
func (s *QuizSession) Advance() bool {
	s.Pos++
	return s.Pos < len(s.Queue)
}

// Answered returns how many questions have been answered so far.
func (s *QuizSession) Answered() int {
	if s.Pos > len(s.Queue) {
		return len(s.Queue)
	}
	return s.Pos
}

// SessionStorage provides in-memory storage for quiz sessions by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*QuizSession
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*QuizSession),
	}
}

// Store saves a session for a given chat ID, replacing any previous one.
func (s *SessionStorage) Store(chatID int64, session *QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
}

// Get retrieves the session for a given chat ID.
func (s *SessionStorage) Get(chatID int64) (*QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

// Delete removes the session for a given chat ID.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
