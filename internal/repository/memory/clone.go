package memory

import (
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneLocation(l *domain.Location) *domain.Location {
	if l == nil {
		return nil
	}
	v := *l
	return &v
}

func cloneHints(h []string) []string {
	return append([]string{}, h...)
}
