package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storefront/internal/storage"
)

type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Scope returns the store for one origin. Keys of other origins are never
// visible through it.
func (r *KVRepo) Scope(origin string) storage.Store {
	return &originStore{db: r.db, origin: origin}
}

type originStore struct {
	db     *sqlx.DB
	origin string
}

func (s *originStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.Get(&v, `SELECT value FROM kv WHERE origin = ? AND key = ?`, s.origin, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *originStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv(origin, key, value, updated_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(origin, key) DO UPDATE
		SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, s.origin, key, value)
	return err
}

func (s *originStore) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE origin = ? AND key = ?`, s.origin, key)
	return err
}

func (s *originStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE origin = ?`, s.origin)
	return err
}
