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

const questionColumns = `id, question, answer, hints, tech_stack, active, created_at`

type questionRow struct {
	ID        string         `db:"id"`
	Question  string         `db:"question"`
	Answer    string         `db:"answer"`
	Hints     pq.StringArray `db:"hints"`
	TechStack *string        `db:"tech_stack"`
	Active    bool           `db:"active"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *questionRow) toDomain() *domain.Question {
	hints := []string(r.Hints)
	if hints == nil {
		hints = []string{}
	}
	return &domain.Question{
		ID:        r.ID,
		Question:  r.Question,
		Answer:    r.Answer,
		Hints:     hints,
		TechStack: r.TechStack,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}

type questionRepository struct {
	db sqlx.ExtContext
}

func (r *questionRepository) Create(ctx context.Context, q *domain.Question) error {
	query := `
		INSERT INTO questions (id, question, answer, hints, tech_stack, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.Question, q.Answer, pq.Array(nonNil(q.Hints)), q.TechStack, q.Active, q.CreatedAt)
	return err
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var row questionRow
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *questionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at DESC`
	return r.selectQuestions(ctx, query)
}

func (r *questionRepository) ListActive(ctx context.Context, techStack string) ([]*domain.Question, error) {
	if techStack == "" {
		query := `SELECT ` + questionColumns + ` FROM questions WHERE active = TRUE`
		return r.selectQuestions(ctx, query)
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE active = TRUE AND tech_stack = $1`
	return r.selectQuestions(ctx, query, techStack)
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) selectQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	var rows []questionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, rows[i].toDomain())
	}
	return questions, nil
}
