package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"

	"github.com/rs/zerolog"
)

type ProfileRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewProfileRepository(sqlDB *sql.DB, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{db: sqlDB, logger: logger}
}

// Get loads the single stored profile. Returns sql.ErrNoRows when none has
// been saved yet; the caller falls back to a default profile.
func (r *ProfileRepository) Get(ctx context.Context) (*domain.PlayerProfile, error) {
	p := &domain.PlayerProfile{
		RankedMMR:            make(map[domain.Mode]int),
		PeakRankedMMR:        make(map[domain.Mode]int),
		Rank:                 make(map[domain.Mode]domain.Standing),
		SeasonWins:           make(map[domain.Mode]int),
		SeasonRewardProgress: make(map[domain.Mode]domain.Rank),
		PlacementMatches:     make(map[domain.Mode]int),
		PlacementComplete:    make(map[domain.Mode]bool),
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT username, level, xp, casual_mmr, peak_casual_mmr, equipped_title,
		       total_games, total_wins, created_at, updated_at
		FROM players WHERE id = 1`).
		Scan(&p.Username, &p.Level, &p.XP, &p.CasualMMR, &p.PeakCasualMMR,
			&p.EquippedTitle, &p.TotalGames, &p.TotalWins, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT mode, ranked_mmr, peak_mmr, season_wins, reward_rank,
		       placement_matches, placement_complete
		FROM player_modes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load mode stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mode              domain.Mode
			mmr, peak, wins   int
			reward            domain.Rank
			placements        int
			placementComplete bool
		)
		if err := rows.Scan(&mode, &mmr, &peak, &wins, &reward, &placements, &placementComplete); err != nil {
			return nil, fmt.Errorf("failed to scan mode stats: %w", err)
		}
		p.RankedMMR[mode] = mmr
		p.PeakRankedMMR[mode] = peak
		p.Rank[mode] = rank.FromMMR(mmr)
		p.SeasonWins[mode] = wins
		p.SeasonRewardProgress[mode] = reward
		p.PlacementMatches[mode] = placements
		p.PlacementComplete[mode] = placementComplete
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	titleRows, err := r.db.QueryContext(ctx, `SELECT title FROM player_titles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	defer titleRows.Close()

	for titleRows.Next() {
		var title string
		if err := titleRows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		p.Titles = append(p.Titles, title)
	}
	if err := titleRows.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// Upsert writes the full profile in one transaction: the identity row, one
// row per mode and the ordered title collection.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.PlayerProfile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, username, level, xp, casual_mmr, peak_casual_mmr,
		                     equipped_title, total_games, total_wins, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			level = excluded.level,
			xp = excluded.xp,
			casual_mmr = excluded.casual_mmr,
			peak_casual_mmr = excluded.peak_casual_mmr,
			equipped_title = excluded.equipped_title,
			total_games = excluded.total_games,
			total_wins = excluded.total_wins,
			updated_at = excluded.updated_at`,
		p.Username, p.Level, p.XP, p.CasualMMR, p.PeakCasualMMR,
		p.EquippedTitle, p.TotalGames, p.TotalWins, createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	for _, mode := range domain.Modes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_modes (mode, ranked_mmr, peak_mmr, season_wins,
			                          reward_rank, placement_matches, placement_complete, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (mode) DO UPDATE SET
				ranked_mmr = excluded.ranked_mmr,
				peak_mmr = excluded.peak_mmr,
				season_wins = excluded.season_wins,
				reward_rank = excluded.reward_rank,
				placement_matches = excluded.placement_matches,
				placement_complete = excluded.placement_complete,
				updated_at = excluded.updated_at`,
			mode, p.RankedMMR[mode], p.PeakRankedMMR[mode], p.SeasonWins[mode],
			p.SeasonRewardProgress[mode], p.PlacementMatches[mode], p.PlacementComplete[mode], now)
		if err != nil {
			return fmt.Errorf("failed to upsert mode stats for %s: %w", mode, err)
		}
	}

	// Rewrite the title list wholesale to preserve insertion order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM player_titles`); err != nil {
		return fmt.Errorf("failed to clear titles: %w", err)
	}
	for _, title := range p.Titles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO player_titles (title) VALUES (?)`, title); err != nil {
			return fmt.Errorf("failed to insert title %q: %w", title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	r.logger.Debug().Str("username", p.Username).Msg("profile persisted")
	return nil
}
