package persist

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/l1jgo/combatstats/internal/combat"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

var liteQueries = buildQueries(sqliteDialect)

// SQLiteStore is the embedded StatsStore used for single-host deployments
// and replays.
type SQLiteStore struct {
	db      *sql.DB
	scoring Scoring
	now     func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, scoring Scoring) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under the bus pump.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, scoring: scoring, now: time.Now}, nil
}

func (s *SQLiteStore) AddKillingSpree(ctx context.Context, accountID int32, mob, boss, player int) error {
	if _, err := s.db.ExecContext(ctx, liteQueries.addKillingSpree, accountID, mob, boss, player); err != nil {
		return fmt.Errorf("add killing spree (account=%d): %w", accountID, err)
	}
	return nil
}

func (s *SQLiteStore) AddKill(ctx context.Context, accountID int32, kind combat.KillType) error {
	q, ok := liteQueries.addKill[kind]
	if !ok {
		return fmt.Errorf("add kill: invalid kill type %s", kind)
	}
	if _, err := s.db.ExecContext(ctx, q, accountID); err != nil {
		return fmt.Errorf("add kill (account=%d kind=%s): %w", accountID, kind, err)
	}
	return nil
}

func (s *SQLiteStore) AddDeath(ctx context.Context, accountID int32) error {
	if _, err := s.db.ExecContext(ctx, liteQueries.addDeath, accountID); err != nil {
		return fmt.Errorf("add death (account=%d): %w", accountID, err)
	}
	return nil
}

func (s *SQLiteStore) SetDamage(ctx context.Context, accountID int32, cat combat.DamageCategory, session, total int64) error {
	if !cat.Valid() {
		return fmt.Errorf("set damage: invalid category %q", cat)
	}
	if _, err := s.db.ExecContext(ctx, liteQueries.setDamage, accountID, string(cat), session, total); err != nil {
		return fmt.Errorf("set damage (account=%d category=%s): %w", accountID, cat, err)
	}
	return nil
}

func (s *SQLiteStore) RecomputeHighScore(ctx context.Context, accountID int32) error {
	_, err := s.db.ExecContext(ctx, liteQueries.recomputeHighScore,
		accountID, s.scoring.Mob, s.scoring.Boss, s.scoring.Player, s.scoring.Death, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("recompute high score (account=%d): %w", accountID, err)
	}
	return nil
}

func (s *SQLiteStore) CloseKillingSpree(ctx context.Context, accountID int32) error {
	if _, err := s.db.ExecContext(ctx, liteQueries.closeKillingSpree, accountID); err != nil {
		return fmt.Errorf("close killing spree (account=%d): %w", accountID, err)
	}
	return nil
}

func (s *SQLiteStore) TopHighScores(ctx context.Context, limit int) ([]HighScore, error) {
	rows, err := s.db.QueryContext(ctx, liteQueries.topHighScores, limit)
	if err != nil {
		return nil, fmt.Errorf("top high scores: %w", err)
	}
	defer rows.Close()

	var result []HighScore
	for rows.Next() {
		var h HighScore
		if err := rows.Scan(&h.AccountID, &h.Score); err != nil {
			return nil, fmt.Errorf("top high scores scan: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) PlayerStats(ctx context.Context, accountID int32) (PlayerStats, error) {
	ps := PlayerStats{AccountID: accountID, Damage: make(map[combat.DamageCategory]int64)}

	err := s.db.QueryRowContext(ctx, liteQueries.playerKills, accountID).
		Scan(&ps.MobKills, &ps.BossKills, &ps.PlayerKills, &ps.Deaths)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ps, fmt.Errorf("player stats (account=%d): %w", accountID, err)
	}

	err = s.db.QueryRowContext(ctx, liteQueries.playerSpree, accountID).
		Scan(&ps.OpenSpree[0], &ps.OpenSpree[1], &ps.OpenSpree[2], &ps.BestSpree)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ps, fmt.Errorf("player spree (account=%d): %w", accountID, err)
	}

	rows, err := s.db.QueryContext(ctx, liteQueries.playerDamage, accountID)
	if err != nil {
		return ps, fmt.Errorf("player damage (account=%d): %w", accountID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var total int64
		if err := rows.Scan(&cat, &total); err != nil {
			return ps, fmt.Errorf("player damage scan: %w", err)
		}
		ps.Damage[combat.DamageCategory(cat)] = total
	}
	return ps, rows.Err()
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}
