package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Asset is one stored icon source.
type Asset struct {
	Name   string
	Source string
	Digest string
	Seq    int64
}

// Valid reports whether the stored digest matches the source.
func (a Asset) Valid() bool {
	return a.Digest == Digest(a.Source)
}

// PutAsset stores source for name unless name is already present.
// Returns inserted=false when an earlier write won; the stored row is
// left untouched.
func (s *Store) PutAsset(ctx context.Context, name, source string) (inserted bool, err error) {
	// WHERE true disambiguates INSERT ... SELECT from the upsert clause.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (name, source, digest, seq)
		SELECT ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM assets WHERE true
		ON CONFLICT(name) DO NOTHING
	`, name, source, Digest(source))
	if err != nil {
		return false, fmt.Errorf("put asset %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put asset %s: rows affected: %w", name, err)
	}
	return n > 0, nil
}

// GetAsset returns the stored asset for name.
func (s *Store) GetAsset(ctx context.Context, name string) (Asset, bool, error) {
	var a Asset
	err := s.db.QueryRowContext(ctx, `
		SELECT name, source, digest, seq FROM assets WHERE name = ?
	`, name).Scan(&a.Name, &a.Source, &a.Digest, &a.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, false, nil
	}
	if err != nil {
		return Asset{}, false, fmt.Errorf("get asset %s: %w", name, err)
	}
	return a, true, nil
}

// ListAssets returns every stored asset ordered by name.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListAssets(ctx context.Context) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, source, digest, seq FROM assets
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []Asset{}
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.Name, &a.Source, &a.Digest, &a.Seq); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

// CountAssets returns the number of stored assets.
func (s *Store) CountAssets(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}
