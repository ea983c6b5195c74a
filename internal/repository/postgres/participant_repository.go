package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const participantColumns = `
	id, email, username, tech_stack, password_hash, status, matched,
	partner_id, question_part, answer_part, hints,
	meeting_location_id, meeting_location_name,
	verified, verified_at, matched_at, registered_at, last_active, version`

type participantRow struct {
	ID                  string         `db:"id"`
	Email               string         `db:"email"`
	Username            string         `db:"username"`
	TechStack           *string        `db:"tech_stack"`
	PasswordHash        string         `db:"password_hash"`
	Status              string         `db:"status"`
	Matched             bool           `db:"matched"`
	PartnerID           *string        `db:"partner_id"`
	QuestionPart        *string        `db:"question_part"`
	AnswerPart          *string        `db:"answer_part"`
	Hints               pq.StringArray `db:"hints"`
	MeetingLocationID   *int           `db:"meeting_location_id"`
	MeetingLocationName *string        `db:"meeting_location_name"`
	Verified            bool           `db:"verified"`
	VerifiedAt          *time.Time     `db:"verified_at"`
	MatchedAt           *time.Time     `db:"matched_at"`
	RegisteredAt        time.Time      `db:"registered_at"`
	LastActive          time.Time      `db:"last_active"`
	Version             int64          `db:"version"`
}

func (r *participantRow) toDomain() *domain.Participant {
	hints := []string(r.Hints)
	if hints == nil {
		hints = []string{}
	}
	return &domain.Participant{
		ID:              r.ID,
		Email:           r.Email,
		Username:        r.Username,
		TechStack:       r.TechStack,
		PasswordHash:    r.PasswordHash,
		Status:          domain.ParticipantStatus(r.Status),
		Matched:         r.Matched,
		PartnerID:       r.PartnerID,
		QuestionPart:    r.QuestionPart,
		AnswerPart:      r.AnswerPart,
		Hints:           hints,
		MeetingLocation: toLocation(r.MeetingLocationID, r.MeetingLocationName),
		Verified:        r.Verified,
		VerifiedAt:      r.VerifiedAt,
		MatchedAt:       r.MatchedAt,
		RegisteredAt:    r.RegisteredAt,
		LastActive:      r.LastActive,
		Version:         r.Version,
	}
}

type participantRepository struct {
	db sqlx.ExtContext
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO users (
			id, email, username, tech_stack, password_hash, status, matched,
			partner_id, question_part, answer_part, hints,
			meeting_location_id, meeting_location_name,
			verified, verified_at, matched_at, registered_at, last_active, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1)
	`
	locID, locName := locationColumns(p.MeetingLocation)
	_, err := r.db.ExecContext(
		ctx, query,
		p.ID, p.Email, p.Username, p.TechStack, p.PasswordHash, string(p.Status), p.Matched,
		p.PartnerID, p.QuestionPart, p.AnswerPart, pq.Array(nonNil(p.Hints)),
		locID, locName,
		p.Verified, p.VerifiedAt, p.MatchedAt, p.RegisteredAt, p.LastActive,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}
	p.Version = 1
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	var row participantRow
	query := `SELECT ` + participantColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *participantRepository) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	var row participantRow
	query := `SELECT ` + participantColumns + ` FROM users WHERE email = $1`
	if err := sqlx.GetContext(ctx, r.db, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *participantRepository) Find(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(filter.Status))
		argCount++
	}
	if filter.Matched != nil {
		query += fmt.Sprintf(" AND matched = $%d", argCount)
		args = append(args, *filter.Matched)
		argCount++
	}
	if filter.TechStack != "" {
		query += fmt.Sprintf(" AND tech_stack = $%d", argCount)
		args = append(args, filter.TechStack)
		argCount++
	}
	if filter.HasPartner != nil {
		if *filter.HasPartner {
			query += " AND partner_id IS NOT NULL"
		} else {
			query += " AND partner_id IS NULL"
		}
	}
	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argCount)
		args = append(args, filter.Email)
		argCount++
	}
	if filter.Username != "" {
		query += fmt.Sprintf(" AND username = $%d", argCount)
		args = append(args, filter.Username)
		argCount++
	}

	query += " ORDER BY registered_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []participantRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}

	participants := make([]*domain.Participant, 0, len(rows))
	for i := range rows {
		participants = append(participants, rows[i].toDomain())
	}
	return participants, nil
}

func (r *participantRepository) Update(ctx context.Context, p *domain.Participant) error {
	query := `
		UPDATE users
		SET email = $1, username = $2, tech_stack = $3, password_hash = $4,
		    status = $5, matched = $6, partner_id = $7,
		    question_part = $8, answer_part = $9, hints = $10,
		    meeting_location_id = $11, meeting_location_name = $12,
		    verified = $13, verified_at = $14, matched_at = $15, last_active = $16,
		    version = version + 1
		WHERE id = $17 AND version = $18
	`
	locID, locName := locationColumns(p.MeetingLocation)
	result, err := r.db.ExecContext(
		ctx, query,
		p.Email, p.Username, p.TechStack, p.PasswordHash,
		string(p.Status), p.Matched, p.PartnerID,
		p.QuestionPart, p.AnswerPart, pq.Array(nonNil(p.Hints)),
		locID, locName,
		p.Verified, p.VerifiedAt, p.MatchedAt, p.LastActive,
		p.ID, p.Version,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return r.missOrConflict(ctx, p.ID)
	}
	p.Version++
	return nil
}

func (r *participantRepository) TouchLastActive(ctx context.Context, id string) error {
	query := `UPDATE users SET last_active = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateTxAbort(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

// missOrConflict tells a deleted row apart from a stale version after an
// update touched nothing.
func (r *participantRepository) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, id); err != nil {
		return err
	}
	if !exists {
		return domain.ErrParticipantNotFound
	}
	return domain.ErrVersionConflict
}

func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_email_key":
			return domain.ErrEmailTaken
		case "users_username_key":
			return domain.ErrUsernameTaken
		}
	}
	return translateTxAbort(err)
}
