package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads the summoners and matches collections from Postgres. Match
// documents are stored whole as JSONB with the timestamp denormalized into an
// indexed ts column; summoners are a plain relational table.
//
// The pool is established once and reused for the life of the process.
// Concurrent callers that arrive before the pool exists block on the same
// in-flight connection attempt instead of dialing duplicates.
type Postgres struct {
	url          string
	queryTimeout time.Duration

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewPostgres creates a store for the given connection URL. No connection is
// made until Connect or the first read.
func NewPostgres(url string, queryTimeout time.Duration) *Postgres {
	return &Postgres{url: url, queryTimeout: queryTimeout}
}

// Connect establishes the connection pool and verifies it with a ping.
// Safe to call concurrently; later calls reuse the existing pool.
func (s *Postgres) Connect(ctx context.Context) error {
	_, err := s.getPool(ctx)
	return err
}

func (s *Postgres) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		return s.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(s.url)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w: %w", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w: %w", ErrUnavailable, err)
	}

	s.pool = pool
	return s.pool, nil
}

// Close closes the connection pool.
func (s *Postgres) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// Ping verifies the store is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	pool, err := s.getPool(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w: %w", ErrUnavailable, err)
	}
	return nil
}

// readFailure tags a failed read as unavailable so the transport layer can
// map it to a 5xx. Reads never retry here.
func readFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// RecentMatches returns up to limit matches, newest first.
func (s *Postgres) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := pool.Query(ctx, `
		SELECT doc FROM matches
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, readFailure("query recent matches", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// MatchByID returns the match document or nil when absent.
func (s *Postgres) MatchByID(ctx context.Context, matchID string) (*Match, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var doc []byte
	err = pool.QueryRow(ctx, `
		SELECT doc FROM matches WHERE match_id = $1
	`, matchID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readFailure("query match by id", err)
	}

	var m Match
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", matchID, err)
	}
	return &m, nil
}

// MatchesByPlayer returns every match containing this puuid, newest first.
func (s *Postgres) MatchesByPlayer(ctx context.Context, puuid string) ([]Match, error) {
	return s.matchesByPlayer(ctx, puuid, "")
}

// MatchesByPlayerSince restricts MatchesByPlayer to ts >= since.
func (s *Postgres) MatchesByPlayerSince(ctx context.Context, puuid, since string) ([]Match, error) {
	return s.matchesByPlayer(ctx, puuid, since)
}

func (s *Postgres) matchesByPlayer(ctx context.Context, puuid, since string) ([]Match, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	member, err := json.Marshal([]map[string]string{{"puuid": puuid}})
	if err != nil {
		return nil, fmt.Errorf("encode player filter: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT doc FROM matches
		WHERE doc->'players' @> $1
		  AND ($2 = '' OR ts >= $2)
		ORDER BY ts DESC
	`, member, since)
	if err != nil {
		return nil, readFailure("query matches by player", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// RecentMatchesPage returns one page of recent matches plus the total and
// tracked-last-week counters.
func (s *Postgres) RecentMatchesPage(ctx context.Context, pageSize, page int) (*MatchPage, error) {
	pageSize, page = ClampPageArgs(pageSize, page)

	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	result := &MatchPage{}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&result.Total); err != nil {
		return nil, readFailure("count matches", err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM matches
		WHERE ts >= $1
		  AND jsonb_path_exists(doc, '$.players[*] ? (@.mvp_score > 0)')
	`, weekAgo).Scan(&result.TrackedLastWeek)
	if err != nil {
		return nil, readFailure("count tracked matches", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT doc FROM matches
		ORDER BY ts DESC
		LIMIT $1 OFFSET $2
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, readFailure("query match page", err)
	}
	defer rows.Close()

	items, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}

// SummonerByPUUID returns the roster member or nil when absent.
func (s *Postgres) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var sm Summoner
	err = pool.QueryRow(ctx, `
		SELECT puuid, COALESCE(display_name, ''), COALESCE(real_name, '')
		FROM summoners WHERE puuid = $1
	`, puuid).Scan(&sm.PUUID, &sm.DisplayName, &sm.RealName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readFailure("query summoner", err)
	}
	return &sm, nil
}

// AllSummoners returns the full roster in insertion order.
func (s *Postgres) AllSummoners(ctx context.Context) ([]Summoner, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := pool.Query(ctx, `
		SELECT puuid, COALESCE(display_name, ''), COALESCE(real_name, '')
		FROM summoners
		ORDER BY ctid
	`)
	if err != nil {
		return nil, readFailure("query summoners", err)
	}
	defer rows.Close()

	var roster []Summoner
	for rows.Next() {
		var sm Summoner
		if err := rows.Scan(&sm.PUUID, &sm.DisplayName, &sm.RealName); err != nil {
			return nil, readFailure("scan summoner", err)
		}
		roster = append(roster, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("read summoners", err)
	}
	return roster, nil
}

func scanMatches(rows pgx.Rows) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, readFailure("scan match", err)
		}
		var m Match
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailure("read matches", err)
	}
	return matches, nil
}
