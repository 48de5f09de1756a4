package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/obs"
)

// CoordKey renders coordinates as a stable cache key, rounded to five
// decimal places (about a meter) so jitter between provider responses does
// not split cache entries.
func CoordKey(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 5, 64)
}

// SQLTravelCache persists travel-time minutes between coordinate pairs.
// Like the geocode cache it speaks the SQL dialect subset both supported
// engines share.
type SQLTravelCache struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLTravelCache(db *sql.DB, log *zap.Logger) *SQLTravelCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLTravelCache{db: db, log: log}
}

// GetMany fetches cached minutes from one origin key to many destination
// keys. Missing pairs are simply absent from the result.
func (s *SQLTravelCache) GetMany(ctx context.Context, origin string, destinations []string) (_ map[string]int, err error) {
	defer obs.Time(s.log, "travel.cache.GetMany")(&err)

	if s.db == nil {
		return nil, errors.New("travel cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("travel cache: origin must not be empty")
	}
	if len(destinations) == 0 {
		return map[string]int{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	ph := make([]string, 0, len(destinations))
	args := make([]any, 0, 1+len(destinations))
	args = append(args, origin)
	for _, d := range destinations {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
		args = append(args, d)
		ph = append(ph, "$"+strconv.Itoa(len(args)))
	}
	if len(uniq) == 0 {
		return map[string]int{}, nil
	}

	// Both engines bind $N positionally; only the placeholder structure is
	// interpolated, every value stays parameterized.
	q := fmt.Sprintf(`
	SELECT destination, minutes
	FROM travel_cache
	WHERE origin = $1
		AND destination IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("travel cache: query travel_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(uniq))
	for rows.Next() {
		var dest string
		var minutes int
		if err := rows.Scan(&dest, &minutes); err != nil {
			return nil, fmt.Errorf("travel cache: scan rows: %w", err)
		}
		out[dest] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("travel cache: row iteration: %w", err)
	}
	return out, nil
}

// PutMany stores minutes from one origin key to many destination keys.
func (s *SQLTravelCache) PutMany(ctx context.Context, origin string, minutes map[string]int) (err error) {
	defer obs.Time(s.log, "travel.cache.PutMany")(&err)

	if s.db == nil {
		return errors.New("travel cache: db is nil")
	}
	if origin == "" {
		return errors.New("travel cache: origin must not be empty")
	}
	if len(minutes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("travel cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO travel_cache (origin, destination, minutes)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET minutes = EXCLUDED.minutes;
	`)
	if err != nil {
		return fmt.Errorf("travel cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, m := range minutes {
		if dest == "" {
			return errors.New("travel cache: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, origin, dest, m); err != nil {
			return fmt.Errorf("travel cache: insert dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("travel cache: commit: %w", err)
	}
	return nil
}
