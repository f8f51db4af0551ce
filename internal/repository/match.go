package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UPO33/MPMatch/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *MatchRepository) Save(ctx context.Context, match domain.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, queue_name, build_name, num_teams, num_users, min_age_ms, min_skill, max_skill, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.MatchID, match.QueueName, match.BuildName, match.NumTeams, match.NumUsers,
		match.MinAge.Milliseconds(), match.MinSkill, match.MaxSkill, match.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.MatchID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_tickets (id, match_id, team_index, position, ticket_id, users, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare ticket insert: %w", err)
	}
	defer stmt.Close()

	for _, team := range match.Teams {
		for _, seat := range team {
			id := seat.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			users, err := json.Marshal(seat.Users)
			if err != nil {
				return fmt.Errorf("failed to encode users of ticket %s: %w", seat.TicketID, err)
			}
			data, err := json.Marshal(seat.Data)
			if err != nil {
				return fmt.Errorf("failed to encode data of ticket %s: %w", seat.TicketID, err)
			}
			if _, err := stmt.ExecContext(ctx, id, match.MatchID, seat.TeamIndex, seat.Position, seat.TicketID, string(users), string(data)); err != nil {
				return fmt.Errorf("failed to insert ticket %s: %w", seat.TicketID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, queue_name, build_name, num_teams, num_users, min_age_ms, min_skill, max_skill, created_at
		FROM matches WHERE match_id = ?`, matchID)

	match, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadTeams(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// ListRecent returns the newest matches first. An empty queue name lists
// every queue. Teams are not loaded.
func (r *MatchRepository) ListRecent(ctx context.Context, queueName string, limit int) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, queue_name, build_name, num_teams, num_users, min_age_ms, min_skill, max_skill, created_at
		FROM matches
		WHERE (? = '' OR queue_name = ?)
		ORDER BY created_at DESC, match_id
		LIMIT ?`, queueName, queueName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(s scanner) (*domain.Match, error) {
	var m domain.Match
	var minAgeMS int64
	var createdAt time.Time
	err := s.Scan(&m.MatchID, &m.QueueName, &m.BuildName, &m.NumTeams, &m.NumUsers, &minAgeMS, &m.MinSkill, &m.MaxSkill, &createdAt)
	if err != nil {
		return nil, err
	}
	m.MinAge = time.Duration(minAgeMS) * time.Millisecond
	m.CreatedAt = createdAt
	return &m, nil
}

func (r *MatchRepository) loadTeams(ctx context.Context, match *domain.Match) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, team_index, position, ticket_id, users, data
		FROM match_tickets WHERE match_id = ?
		ORDER BY team_index, position`, match.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load tickets of match %s: %w", match.MatchID, err)
	}
	defer rows.Close()

	match.Teams = make([][]domain.MatchTicket, match.NumTeams)
	for rows.Next() {
		seat := domain.MatchTicket{MatchID: match.MatchID}
		var users, data string
		if err := rows.Scan(&seat.ID, &seat.TeamIndex, &seat.Position, &seat.TicketID, &users, &data); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(users), &seat.Users); err != nil {
			return fmt.Errorf("failed to decode users of ticket %s: %w", seat.TicketID, err)
		}
		if err := json.Unmarshal([]byte(data), &seat.Data); err != nil {
			return fmt.Errorf("failed to decode data of ticket %s: %w", seat.TicketID, err)
		}
		if seat.TeamIndex < 0 || seat.TeamIndex >= len(match.Teams) {
			r.logger.Warn().Str("match_id", match.MatchID).Int("team_index", seat.TeamIndex).Msg("ticket outside team range")
			continue
		}
		match.Teams[seat.TeamIndex] = append(match.Teams[seat.TeamIndex], seat)
	}
	return rows.Err()
}
