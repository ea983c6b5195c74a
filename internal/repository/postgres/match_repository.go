package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchColumns = `
	id, user1_id, user2_id, question_id, question, answer, hints, tech_stack,
	meeting_location_id, meeting_location_name, status, completed, completed_at, created_at`

type matchRow struct {
	ID                  string         `db:"id"`
	User1ID             string         `db:"user1_id"`
	User2ID             string         `db:"user2_id"`
	QuestionID          string         `db:"question_id"`
	Question            string         `db:"question"`
	Answer              string         `db:"answer"`
	Hints               pq.StringArray `db:"hints"`
	TechStack           *string        `db:"tech_stack"`
	MeetingLocationID   *int           `db:"meeting_location_id"`
	MeetingLocationName *string        `db:"meeting_location_name"`
	Status              string         `db:"status"`
	Completed           bool           `db:"completed"`
	CompletedAt         *time.Time     `db:"completed_at"`
	CreatedAt           time.Time      `db:"created_at"`
}

func (r *matchRow) toDomain() *domain.Match {
	hints := []string(r.Hints)
	if hints == nil {
		hints = []string{}
	}
	return &domain.Match{
		ID:              r.ID,
		User1ID:         r.User1ID,
		User2ID:         r.User2ID,
		QuestionID:      r.QuestionID,
		Question:        r.Question,
		Answer:          r.Answer,
		Hints:           hints,
		TechStack:       r.TechStack,
		MeetingLocation: toLocation(r.MeetingLocationID, r.MeetingLocationName),
		Status:          domain.MatchStatus(r.Status),
		Completed:       r.Completed,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
	}
}

type matchRepository struct {
	db sqlx.ExtContext
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (
			id, user1_id, user2_id, question_id, question, answer, hints, tech_stack,
			meeting_location_id, meeting_location_name, status, completed, completed_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	locID, locName := locationColumns(match.MeetingLocation)
	_, err := r.db.ExecContext(
		ctx, query,
		match.ID, match.User1ID, match.User2ID, match.QuestionID,
		match.Question, match.Answer, pq.Array(nonNil(match.Hints)), match.TechStack,
		locID, locName, string(match.Status), match.Completed, match.CompletedAt, match.CreatedAt,
	)
	return translateTxAbort(err)
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	var row matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	var row matchRow
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.db, &row, query, user1ID, user2ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error) {
	var rows []matchRow
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID); err != nil {
		return nil, err
	}
	matches := make([]*domain.Match, 0, len(rows))
	for i := range rows {
		matches = append(matches, rows[i].toDomain())
	}
	return matches, nil
}

func (r *matchRepository) Update(ctx context.Context, match *domain.Match) error {
	query := `
		UPDATE matches
		SET status = $1, completed = $2, completed_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, string(match.Status), match.Completed, match.CompletedAt, match.ID)
	if err != nil {
		return translateTxAbort(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateTxAbort(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
