package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SiteConfigRepository struct {
	DB *pgxpool.Pool
}

func NewSiteConfigRepository(db *pgxpool.Pool) *SiteConfigRepository {
	return &SiteConfigRepository{DB: db}
}

// Get returns the stored config blob for the given row id, or nil when the
// row does not exist yet.
func (r *SiteConfigRepository) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	var raw []byte
	err := r.DB.QueryRow(ctx,
		`SELECT data FROM site_config WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Upsert replaces the whole blob for the row.
func (r *SiteConfigRepository) Upsert(ctx context.Context, id string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx,
		`INSERT INTO site_config(id, data, updated_at)
         VALUES($1, $2, CURRENT_TIMESTAMP)
         ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = CURRENT_TIMESTAMP`,
		id, raw)
	return err
}
