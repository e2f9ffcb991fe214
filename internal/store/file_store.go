package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"accord/internal/domain"
)

const (
	profilesFile = "profiles.json"
	messagesFile = "messages.json"
)

// FileStore persists profiles and messages to JSON files under dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Close is a no-op; every call opens and closes its files.
func (s *FileStore) Close() error { return nil }

// ---------- Profiles ----------

func (s *FileStore) loadProfiles() (map[domain.UserID]domain.Profile, error) {
	m := map[domain.UserID]domain.Profile{}
	if err := readJSON(filepath.Join(s.dir, profilesFile), &m); err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return m, nil
}

func (s *FileStore) saveProfiles(m map[domain.UserID]domain.Profile) error {
	return writeJSON(filepath.Join(s.dir, profilesFile), m, 0o600)
}

// GetProfile returns the profile of user or ErrNotFound.
func (s *FileStore) GetProfile(_ context.Context, user domain.UserID) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return domain.Profile{}, err
	}
	p, ok := m[user]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", user, domain.ErrNotFound)
	}
	return p, nil
}

// SaveProfile inserts or replaces the profile keyed by its user ID. Missing
// IDs and timestamps are filled in.
func (s *FileStore) SaveProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if existing, ok := m[profile.UserID]; ok {
		if profile.ID == "" {
			profile.ID = existing.ID
		}
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = existing.CreatedAt
		}
	}
	if profile.ID == "" {
		profile.ID = domain.ProfileID(uuid.NewString())
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	m[profile.UserID] = profile
	return s.saveProfiles(m)
}

// ListProfiles returns every profile ordered by creation time.
func (s *FileStore) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// SetPublicKey overwrites the stored public key of the profile with id.
func (s *FileStore) SetPublicKey(_ context.Context, id domain.ProfileID, key domain.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return err
	}
	for user, p := range m {
		if p.ID != id {
			continue
		}
		p.EncryptionPublicKey = key
		p.UpdatedAt = s.now().UTC()
		m[user] = p
		return s.saveProfiles(m)
	}
	return fmt.Errorf("profile id %q: %w", id, domain.ErrNotFound)
}

// PublicKey returns the stored public key of user.
func (s *FileStore) PublicKey(_ context.Context, user domain.UserID) (domain.PublicKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return "", false, err
	}
	p, ok := m[user]
	if !ok || p.EncryptionPublicKey == "" {
		return "", false, nil
	}
	return p.EncryptionPublicKey, true, nil
}

// PublishPublicKey stores key on user's profile, creating the profile if needed.
func (s *FileStore) PublishPublicKey(_ context.Context, user domain.UserID, key domain.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadProfiles()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	p, ok := m[user]
	if !ok {
		p = domain.Profile{
			ID:        domain.ProfileID(uuid.NewString()),
			UserID:    user,
			CreatedAt: now,
		}
	}
	p.EncryptionPublicKey = key
	p.UpdatedAt = now
	m[user] = p
	return s.saveProfiles(m)
}

// ---------- Messages ----------

// SaveMessage appends msg. Missing IDs and timestamps are filled in.
func (s *FileStore) SaveMessage(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, messagesFile)
	var msgs []domain.Message
	if err := readJSON(path, &msgs); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}
	msgs = append(msgs, msg)
	return writeJSON(path, msgs, 0o600)
}

// ListConversation returns the messages between a and b, oldest first.
func (s *FileStore) ListConversation(_ context.Context, a, b domain.UserID) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []domain.Message
	if err := readJSON(filepath.Join(s.dir, messagesFile), &msgs); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if between(m, a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func between(m domain.Message, a, b domain.UserID) bool {
	return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
}

// Compile-time assertions that FileStore implements the domain store interfaces.
var (
	_ domain.ProfileStore = (*FileStore)(nil)
	_ domain.MessageStore = (*FileStore)(nil)
)
