package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type questionRepository struct {
	s *Store
}

func (r *questionRepository) Create(ctx context.Context, q *domain.Question) error {
	return r.s.view(func(st *state) error {
		st.questions[q.ID] = cloneQuestion(q)
		return nil
	})
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var out *domain.Question
	err := r.s.view(func(st *state) error {
		q, ok := st.questions[id]
		if !ok {
			return domain.ErrQuestionNotFound
		}
		out = cloneQuestion(q)
		return nil
	})
	return out, err
}

func (r *questionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	return r.collect(func(*domain.Question) bool { return true })
}

func (r *questionRepository) ListActive(ctx context.Context, techStack string) ([]*domain.Question, error) {
	return r.collect(func(q *domain.Question) bool {
		if !q.Active {
			return false
		}
		return techStack == "" || (q.TechStack != nil && *q.TechStack == techStack)
	})
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.view(func(st *state) error {
		n = int64(len(st.questions))
		return nil
	})
	return n, err
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.questions[id]; !ok {
			return domain.ErrQuestionNotFound
		}
		delete(st.questions, id)
		return nil
	})
}

func (r *questionRepository) collect(keep func(*domain.Question) bool) ([]*domain.Question, error) {
	out := []*domain.Question{}
	err := r.s.view(func(st *state) error {
		for _, q := range st.questions {
			if keep(q) {
				out = append(out, cloneQuestion(q))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}
