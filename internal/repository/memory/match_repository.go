package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type matchRepository struct {
	s *Store
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	return r.s.view(func(st *state) error {
		st.matches[match.ID] = cloneMatch(match)
		return nil
	})
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	var out *domain.Match
	err := r.s.view(func(st *state) error {
		m, ok := st.matches[id]
		if !ok {
			return domain.ErrMatchNotFound
		}
		out = cloneMatch(m)
		return nil
	})
	return out, err
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	var out *domain.Match
	err := r.s.view(func(st *state) error {
		for _, m := range st.matches {
			if !m.Links(user1ID, user2ID) {
				continue
			}
			if out == nil || m.CreatedAt.After(out.CreatedAt) {
				out = m
			}
		}
		if out == nil {
			return domain.ErrMatchNotFound
		}
		out = cloneMatch(out)
		return nil
	})
	return out, err
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error) {
	out := []*domain.Match{}
	err := r.s.view(func(st *state) error {
		for _, m := range st.matches {
			if m.HasUser(userID) {
				out = append(out, cloneMatch(m))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *matchRepository) Update(ctx context.Context, match *domain.Match) error {
	return r.s.view(func(st *state) error {
		current, ok := st.matches[match.ID]
		if !ok {
			return domain.ErrMatchNotFound
		}
		current.Status = match.Status
		current.Completed = match.Completed
		current.CompletedAt = cloneTime(match.CompletedAt)
		return nil
	})
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.matches[id]; !ok {
			return domain.ErrMatchNotFound
		}
		delete(st.matches, id)
		return nil
	})
}
