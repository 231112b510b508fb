package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ranked-clicker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type MatchHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: sqlDB, logger: logger}
}

// Insert stores one finished match. Records without an ID get a nanoid.
func (r *MatchHistoryRepository) Insert(ctx context.Context, record domain.MatchRecord) error {
	id := record.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_history (id, mode, queue_type, won, player_score,
		                           opponent_score, mmr_change, new_mmr, played_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		id, record.Mode, record.QueueType, record.Won, record.PlayerScore,
		record.OpponentScore, record.MMRChange, record.NewMMR, record.PlayedAt, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert match record: %w", err)
	}

	r.logger.Debug().
		Str("id", id).
		Str("mode", string(record.Mode)).
		Bool("won", record.Won).
		Int("mmr_change", record.MMRChange).
		Msg("match record stored")
	return nil
}

// Recent returns up to limit records, newest first.
func (r *MatchHistoryRepository) Recent(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, mode, queue_type, won, player_score, opponent_score,
		       mmr_change, new_mmr, played_at, created_at
		FROM match_history
		ORDER BY played_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	var records []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(&rec.ID, &rec.Mode, &rec.QueueType, &rec.Won,
			&rec.PlayerScore, &rec.OpponentScore, &rec.MMRChange, &rec.NewMMR,
			&rec.PlayedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
