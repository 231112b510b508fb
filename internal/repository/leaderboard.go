package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ranked-clicker/internal/constants"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"

	"github.com/rs/zerolog"
)

type LeaderboardRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewLeaderboardRepository(sqlDB *sql.DB, logger zerolog.Logger) *LeaderboardRepository {
	return &LeaderboardRepository{db: sqlDB, logger: logger}
}

// Snapshot is the persisted leaderboard population plus its season tag and
// drift clock.
type Snapshot struct {
	Players    []domain.LeaderboardPlayer
	Season     int
	LastUpdate time.Time
}

// Load reads the stored population. Returns sql.ErrNoRows when no snapshot
// exists yet.
func (r *LeaderboardRepository) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	err := r.db.QueryRowContext(ctx,
		`SELECT season, last_update FROM leaderboard_meta WHERE id = 1`).
		Scan(&snap.Season, &snap.LastUpdate)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, mmr_1v1, mmr_2v2, mmr_3v3, title, specialization, last_update
		FROM leaderboard_players`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                domain.LeaderboardPlayer
			m1v1, m2v2, m3v3 int
			specialization   string
		)
		if err := rows.Scan(&p.ID, &p.Username, &m1v1, &m2v2, &m3v3, &p.Title,
			&specialization, &p.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard player: %w", err)
		}
		p.MMR = map[domain.Mode]int{
			domain.Mode1v1: m1v1,
			domain.Mode2v2: m2v2,
			domain.Mode3v3: m3v3,
		}
		p.Standing = make(map[domain.Mode]domain.Standing, len(p.MMR))
		for mode, mmr := range p.MMR {
			p.Standing[mode] = rank.FromMMR(mmr)
		}
		p.Specialization = domain.Mode(specialization)
		snap.Players = append(snap.Players, p)
	}
	return snap, rows.Err()
}

// Replace swaps the entire stored population in one transaction; used both
// for first-time generation and for season rollover.
func (r *LeaderboardRepository) Replace(ctx context.Context, snap *Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_players`); err != nil {
		return fmt.Errorf("failed to clear leaderboard: %w", err)
	}

	for i := 0; i < len(snap.Players); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(snap.Players) {
			end = len(snap.Players)
		}
		for _, p := range snap.Players[i:end] {
			if err := upsertLeaderboardPlayer(ctx, tx, p); err != nil {
				return err
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leaderboard_meta (id, season, last_update)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			season = excluded.season,
			last_update = excluded.last_update`,
		snap.Season, snap.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leaderboard: %w", err)
	}

	r.logger.Debug().
		Int("players", len(snap.Players)).
		Int("season", snap.Season).
		Msg("leaderboard snapshot stored")
	return nil
}

// Update persists rating changes after a drift pass without touching the
// population membership.
func (r *LeaderboardRepository) Update(ctx context.Context, snap *Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range snap.Players {
		if err := upsertLeaderboardPlayer(ctx, tx, p); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE leaderboard_meta SET last_update = ? WHERE id = 1`, snap.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to update leaderboard meta: %w", err)
	}

	return tx.Commit()
}

func upsertLeaderboardPlayer(ctx context.Context, tx *sql.Tx, p domain.LeaderboardPlayer) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO leaderboard_players (id, username, mmr_1v1, mmr_2v2, mmr_3v3,
		                                 title, specialization, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			mmr_1v1 = excluded.mmr_1v1,
			mmr_2v2 = excluded.mmr_2v2,
			mmr_3v3 = excluded.mmr_3v3,
			title = excluded.title,
			specialization = excluded.specialization,
			last_update = excluded.last_update`,
		p.ID, p.Username, p.MMR[domain.Mode1v1], p.MMR[domain.Mode2v2], p.MMR[domain.Mode3v3],
		p.Title, string(p.Specialization), p.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard player %s: %w", p.ID, err)
	}
	return nil
}
