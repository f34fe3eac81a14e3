package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/combatstats/internal/combat"
)

var pgQueries = buildQueries(postgresDialect)

// StatsRepo is the Postgres StatsStore.
type StatsRepo struct {
	db      *DB
	scoring Scoring
	now     func() time.Time
}

func NewStatsRepo(db *DB, scoring Scoring) *StatsRepo {
	return &StatsRepo{db: db, scoring: scoring, now: time.Now}
}

// AddKillingSpree increments the open spree counters.
func (r *StatsRepo) AddKillingSpree(ctx context.Context, accountID int32, mob, boss, player int) error {
	if _, err := r.db.Pool.Exec(ctx, pgQueries.addKillingSpree, accountID, mob, boss, player); err != nil {
		return fmt.Errorf("add killing spree (account=%d): %w", accountID, err)
	}
	return nil
}

// AddKill counts one kill.
func (r *StatsRepo) AddKill(ctx context.Context, accountID int32, kind combat.KillType) error {
	q, ok := pgQueries.addKill[kind]
	if !ok {
		return fmt.Errorf("add kill: invalid kill type %s", kind)
	}
	if _, err := r.db.Pool.Exec(ctx, q, accountID); err != nil {
		return fmt.Errorf("add kill (account=%d kind=%s): %w", accountID, kind, err)
	}
	return nil
}

// AddDeath counts one death.
func (r *StatsRepo) AddDeath(ctx context.Context, accountID int32) error {
	if _, err := r.db.Pool.Exec(ctx, pgQueries.addDeath, accountID); err != nil {
		return fmt.Errorf("add death (account=%d): %w", accountID, err)
	}
	return nil
}

// SetDamage records the running total of one login session.
func (r *StatsRepo) SetDamage(ctx context.Context, accountID int32, cat combat.DamageCategory, session, total int64) error {
	if !cat.Valid() {
		return fmt.Errorf("set damage: invalid category %q", cat)
	}
	if _, err := r.db.Pool.Exec(ctx, pgQueries.setDamage, accountID, string(cat), session, total); err != nil {
		return fmt.Errorf("set damage (account=%d category=%s): %w", accountID, cat, err)
	}
	return nil
}

// RecomputeHighScore rewrites the account's high-score row from its kills
// and deaths.
func (r *StatsRepo) RecomputeHighScore(ctx context.Context, accountID int32) error {
	_, err := r.db.Pool.Exec(ctx, pgQueries.recomputeHighScore,
		accountID, r.scoring.Mob, r.scoring.Boss, r.scoring.Player, r.scoring.Death, r.now(),
	)
	if err != nil {
		return fmt.Errorf("recompute high score (account=%d): %w", accountID, err)
	}
	return nil
}

// CloseKillingSpree records the open spree as best if it beats it, then
// zeroes the open counters.
func (r *StatsRepo) CloseKillingSpree(ctx context.Context, accountID int32) error {
	if _, err := r.db.Pool.Exec(ctx, pgQueries.closeKillingSpree, accountID); err != nil {
		return fmt.Errorf("close killing spree (account=%d): %w", accountID, err)
	}
	return nil
}

// TopHighScores returns the best scores, highest first.
func (r *StatsRepo) TopHighScores(ctx context.Context, limit int) ([]HighScore, error) {
	rows, err := r.db.Pool.Query(ctx, pgQueries.topHighScores, limit)
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

// PlayerStats loads everything stored for an account. Missing rows read as zero.
func (r *StatsRepo) PlayerStats(ctx context.Context, accountID int32) (PlayerStats, error) {
	ps := PlayerStats{AccountID: accountID, Damage: make(map[combat.DamageCategory]int64)}

	err := r.db.Pool.QueryRow(ctx, pgQueries.playerKills, accountID).
		Scan(&ps.MobKills, &ps.BossKills, &ps.PlayerKills, &ps.Deaths)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return ps, fmt.Errorf("player stats (account=%d): %w", accountID, err)
	}

	err = r.db.Pool.QueryRow(ctx, pgQueries.playerSpree, accountID).
		Scan(&ps.OpenSpree[0], &ps.OpenSpree[1], &ps.OpenSpree[2], &ps.BestSpree)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return ps, fmt.Errorf("player spree (account=%d): %w", accountID, err)
	}

	rows, err := r.db.Pool.Query(ctx, pgQueries.playerDamage, accountID)
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

func (r *StatsRepo) Close() {
	r.db.Close()
}
