package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type participantRepository struct {
	s *Store
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	return r.s.view(func(st *state) error {
		if err := checkUnique(st, p); err != nil {
			return err
		}
		p.Version = 1
		st.participants[p.ID] = cloneParticipant(p)
		return nil
	})
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	var out *domain.Participant
	err := r.s.view(func(st *state) error {
		p, ok := st.participants[id]
		if !ok {
			return domain.ErrParticipantNotFound
		}
		out = cloneParticipant(p)
		return nil
	})
	return out, err
}

func (r *participantRepository) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	var out *domain.Participant
	err := r.s.view(func(st *state) error {
		for _, p := range st.participants {
			if p.Email == email {
				out = cloneParticipant(p)
				return nil
			}
		}
		return domain.ErrParticipantNotFound
	})
	return out, err
}

func (r *participantRepository) Find(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	var out []*domain.Participant
	err := r.s.view(func(st *state) error {
		for _, p := range st.participants {
			if matchesFilter(p, filter) {
				out = append(out, cloneParticipant(p))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []*domain.Participant{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	if out == nil {
		out = []*domain.Participant{}
	}
	return out, nil
}

func (r *participantRepository) Update(ctx context.Context, p *domain.Participant) error {
	return r.s.view(func(st *state) error {
		current, ok := st.participants[p.ID]
		if !ok {
			return domain.ErrParticipantNotFound
		}
		if current.Version != p.Version {
			return domain.ErrVersionConflict
		}
		if err := checkUnique(st, p); err != nil {
			return err
		}
		p.Version++
		st.participants[p.ID] = cloneParticipant(p)
		return nil
	})
}

func (r *participantRepository) TouchLastActive(ctx context.Context, id string) error {
	return r.s.view(func(st *state) error {
		p, ok := st.participants[id]
		if !ok {
			return domain.ErrParticipantNotFound
		}
		p.LastActive = time.Now()
		return nil
	})
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.participants[id]; !ok {
			return domain.ErrParticipantNotFound
		}
		delete(st.participants, id)
		return nil
	})
}

func checkUnique(st *state, p *domain.Participant) error {
	for id, other := range st.participants {
		if id == p.ID {
			continue
		}
		if other.Email == p.Email {
			return domain.ErrEmailTaken
		}
		if other.Username == p.Username {
			return domain.ErrUsernameTaken
		}
	}
	return nil
}

func matchesFilter(p *domain.Participant, f domain.ParticipantFilter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Matched != nil && p.Matched != *f.Matched {
		return false
	}
	if f.TechStack != "" && p.TechStackValue() != f.TechStack {
		return false
	}
	if f.HasPartner != nil && p.HasPartner() != *f.HasPartner {
		return false
	}
	if f.Email != "" && p.Email != f.Email {
		return false
	}
	if f.Username != "" && p.Username != f.Username {
		return false
	}
	return true
}
