package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.Credential, error) {
	token, ok, err := getValue(ctx, r.db, common.StorageKeyToken)
	if err != nil || !ok {
		return nil, err
	}
	rawUser, ok, err := getValue(ctx, r.db, common.StorageKeyUser)
	if err != nil || !ok {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, fmt.Errorf("stored user: %w: %w", common.ErrDecode, err)
	}

	return &models.Credential{Token: token, User: user}, nil
}

// Set writes token and user in one transaction, so a reader never sees one
// without the other.
func (r *SQLiteRepository) Set(ctx context.Context, token string, user models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := setValue(ctx, tx, common.StorageKeyToken, token); err != nil {
			return err
		}
		return setValue(ctx, tx, common.StorageKeyUser, string(rawUser))
	})
	if err != nil && !errors.Is(err, common.ErrStorage) {
		return fmt.Errorf("failed to set credential: %w: %w", common.ErrStorage, err)
	}
	return err
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key IN (?, ?)`,
		common.StorageKeyToken, common.StorageKeyUser)
	if err != nil {
		return fmt.Errorf("failed to clear credential: %w: %w", common.ErrStorage, err)
	}
	return nil
}

func getValue(ctx context.Context, db dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w: %w", key, common.ErrStorage, err)
	}
	return value, true, nil
}

func setValue(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w: %w", key, common.ErrStorage, err)
	}
	return nil
}
