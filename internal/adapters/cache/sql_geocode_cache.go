package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/obs"
)

// SQLGeocodeCache persists geocoding result pages keyed by normalized
// query. Statements stick to $N placeholders and ON CONFLICT upserts, which
// both supported engines (PostgreSQL, SQLite) accept, so one implementation
// serves either DSN.
type SQLGeocodeCache struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLGeocodeCache(db *sql.DB, log *zap.Logger) *SQLGeocodeCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLGeocodeCache{db: db, log: log}
}

// Get returns the cached result page for a query, wrapping
// domain.ErrNotFound on a miss.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ []domain.Place, err error) {
	defer obs.Time(s.log, "geocode.cache.Get")(&err)

	if s.db == nil {
		return nil, errors.New("geocode cache: db is nil")
	}
	if query == "" {
		return nil, errors.New("geocode cache: query must not be empty")
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT name, address, lat, lon, kind, class, place_id
	FROM geocode_cache
	WHERE query = $1
	ORDER BY rank;
	`, query)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(&p.Name, &p.Address, &p.Coords.Lat, &p.Coords.Lon, &p.Kind, &p.Class, &p.PlaceID); err != nil {
			return nil, fmt.Errorf("geocode cache: scan rows: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: row iteration: %w", err)
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("geocode cache: %q: %w", query, domain.ErrNotFound)
	}
	return places, nil
}

// Put replaces the cached page for a query with the given results.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, places []domain.Place) (err error) {
	defer obs.Time(s.log, "geocode.cache.Put")(&err)

	if s.db == nil {
		return errors.New("geocode cache: db is nil")
	}
	if query == "" {
		return errors.New("geocode cache: query must not be empty")
	}
	if len(places) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// A fresh page may be shorter than the stale one, so replace the whole
	// rank range instead of upserting row by row.
	if _, err := tx.ExecContext(ctx, `DELETE FROM geocode_cache WHERE query = $1;`, query); err != nil {
		return fmt.Errorf("geocode cache: clear stale page: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (query, rank, name, address, lat, lon, kind, class, place_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`)
	if err != nil {
		return fmt.Errorf("geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range places {
		if _, err := stmt.ExecContext(ctx, query, i, p.Name, p.Address, p.Coords.Lat, p.Coords.Lon, p.Kind, p.Class, p.PlaceID); err != nil {
			return fmt.Errorf("geocode cache: insert rank=%d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("geocode cache: commit: %w", err)
	}
	return nil
}
