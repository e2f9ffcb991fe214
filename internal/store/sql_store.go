package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"accord/internal/domain"
)

// SQLStore keeps profiles and messages in SQLite.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLStore opens (or creates) the SQLite database at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serialises writers; one connection avoids "database is locked"
	// under the migration's parallel writes.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			encryption_public_key TEXT,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL DEFAULT '',
			sender_id TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			preview TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, recipient_id, created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ---------- Profiles ----------

const profileColumns = `id, user_id, display_name, encryption_public_key, is_admin, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var (
		p                 domain.Profile
		key               sql.NullString
		isAdmin           int64
		created, updated  int64
		id, user, display string
	)
	if err := row.Scan(&id, &user, &display, &key, &isAdmin, &created, &updated); err != nil {
		return domain.Profile{}, err
	}
	p.ID = domain.ProfileID(id)
	p.UserID = domain.UserID(user)
	p.DisplayName = display
	p.EncryptionPublicKey = domain.PublicKey(key.String)
	p.IsAdmin = isAdmin != 0
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return p, nil
}

// GetProfile returns the profile of user or ErrNotFound.
func (s *SQLStore) GetProfile(ctx context.Context, user domain.UserID) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, user.String())
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %q: %w", user, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile %q: %w", user, err)
	}
	return p, nil
}

// SaveProfile inserts or replaces the profile keyed by its user ID.
func (s *SQLStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	now := s.now().UTC()
	if profile.ID == "" {
		if existing, err := s.GetProfile(ctx, profile.UserID); err == nil {
			profile.ID = existing.ID
			profile.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if profile.ID == "" {
		profile.ID = domain.ProfileID(uuid.NewString())
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			encryption_public_key = excluded.encryption_public_key,
			is_admin = excluded.is_admin,
			updated_at = excluded.updated_at`,
		profile.ID.String(),
		profile.UserID.String(),
		profile.DisplayName,
		nullKey(profile.EncryptionPublicKey),
		boolInt(profile.IsAdmin),
		profile.CreatedAt.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save profile %q: %w", profile.UserID, err)
	}
	return nil
}

// ListProfiles returns every profile ordered by creation time.
func (s *SQLStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, user_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPublicKey overwrites the stored public key of the profile with id.
func (s *SQLStore) SetPublicKey(ctx context.Context, id domain.ProfileID, key domain.PublicKey) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET encryption_public_key = ?, updated_at = ? WHERE id = ?`,
		nullKey(key), s.now().UTC().UnixNano(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("set public key for %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile id %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

// PublicKey returns the stored public key of user.
func (s *SQLStore) PublicKey(ctx context.Context, user domain.UserID) (domain.PublicKey, bool, error) {
	var key sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT encryption_public_key FROM profiles WHERE user_id = ?`, user.String(),
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get public key %q: %w", user, err)
	}
	if !key.Valid || key.String == "" {
		return "", false, nil
	}
	return domain.PublicKey(key.String), true, nil
}

// PublishPublicKey stores key on user's profile, creating the profile if needed.
func (s *SQLStore) PublishPublicKey(ctx context.Context, user domain.UserID, key domain.PublicKey) error {
	now := s.now().UTC().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, encryption_public_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			encryption_public_key = excluded.encryption_public_key,
			updated_at = excluded.updated_at`,
		uuid.NewString(), user.String(), nullKey(key), now, now,
	)
	if err != nil {
		return fmt.Errorf("publish public key for %q: %w", user, err)
	}
	return nil
}

// ---------- Messages ----------

// SaveMessage inserts msg. Missing IDs and timestamps are filled in.
func (s *SQLStore) SaveMessage(ctx context.Context, msg domain.Message) error {
	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, match_id, sender_id, recipient_id, kind, content, preview, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID.String(), msg.MatchID.String(), msg.SenderID.String(), msg.RecipientID.String(),
		string(msg.Kind), msg.Content, msg.Preview, msg.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// ListConversation returns the messages between a and b, oldest first.
func (s *SQLStore) ListConversation(ctx context.Context, a, b domain.UserID) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, sender_id, recipient_id, kind, content, preview, created_at
		FROM messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at, rowid`,
		a.String(), b.String(), b.String(), a.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var (
			m                                  domain.Message
			id, match, sender, recipient, kind string
			created                            int64
		)
		if err := rows.Scan(&id, &match, &sender, &recipient, &kind, &m.Content, &m.Preview, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = domain.MessageID(id)
		m.MatchID = domain.MatchID(match)
		m.SenderID = domain.UserID(sender)
		m.RecipientID = domain.UserID(recipient)
		m.Kind = domain.MessageKind(kind)
		m.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullKey(k domain.PublicKey) sql.NullString {
	return sql.NullString{String: string(k), Valid: k != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time assertions that SQLStore implements the domain store interfaces.
var (
	_ domain.ProfileStore = (*SQLStore)(nil)
	_ domain.MessageStore = (*SQLStore)(nil)
)
