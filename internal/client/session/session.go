// Package session persists the dashboard's login between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
)

// ErrNoSession is returned by Load when nobody has logged in yet.
var ErrNoSession = errors.New("not logged in")

// Session is what a successful login leaves behind.
type Session struct {
	Token    string             `json:"token"`
	User     models.UserSummary `json:"user"`
	Server   string             `json:"server"`
	LoggedIn time.Time          `json:"logged_in"`
}

// Store reads and writes a Session as a JSON file readable only by the owner.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is ~/.vitalskeeper/session.json, or session.json in the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".vitalskeeper", "session.json")
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the saved session, or ErrNoSession.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	defer f.Close()

	var sess Session
	if err := json.NewDecoder(f).Decode(&sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save writes sess, replacing any previous one.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(sess); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Clear removes the saved session. Clearing a missing session is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
