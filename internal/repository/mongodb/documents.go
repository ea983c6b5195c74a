package mongodb

import (
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type locationDoc struct {
	ID   int    `bson:"id"`
	Name string `bson:"name"`
}

func fromLocation(l *domain.Location) *locationDoc {
	if l == nil {
		return nil
	}
	return &locationDoc{ID: l.ID, Name: l.Name}
}

func (d *locationDoc) toDomain() *domain.Location {
	if d == nil {
		return nil
	}
	return &domain.Location{ID: d.ID, Name: d.Name}
}

type participantDoc struct {
	ID              string       `bson:"_id"`
	Email           string       `bson:"email"`
	Username        string       `bson:"username"`
	TechStack       *string      `bson:"techStack"`
	PasswordHash    string       `bson:"passwordHash"`
	Status          string       `bson:"status"`
	Matched         bool         `bson:"matched"`
	PartnerID       *string      `bson:"partnerId"`
	QuestionPart    *string      `bson:"questionPart"`
	AnswerPart      *string      `bson:"answerPart"`
	Hints           []string     `bson:"hints"`
	MeetingLocation *locationDoc `bson:"meetingLocation"`
	Verified        bool         `bson:"verified"`
	VerifiedAt      *time.Time   `bson:"verifiedAt"`
	MatchedAt       *time.Time   `bson:"matchedAt"`
	RegisteredAt    time.Time    `bson:"registeredAt"`
	LastActive      time.Time    `bson:"lastActive"`
	Version         int64        `bson:"version"`
}

func fromParticipant(p *domain.Participant) *participantDoc {
	return &participantDoc{
		ID:              p.ID,
		Email:           p.Email,
		Username:        p.Username,
		TechStack:       p.TechStack,
		PasswordHash:    p.PasswordHash,
		Status:          string(p.Status),
		Matched:         p.Matched,
		PartnerID:       p.PartnerID,
		QuestionPart:    p.QuestionPart,
		AnswerPart:      p.AnswerPart,
		Hints:           nonNil(p.Hints),
		MeetingLocation: fromLocation(p.MeetingLocation),
		Verified:        p.Verified,
		VerifiedAt:      p.VerifiedAt,
		MatchedAt:       p.MatchedAt,
		RegisteredAt:    p.RegisteredAt,
		LastActive:      p.LastActive,
		Version:         p.Version,
	}
}

func (d *participantDoc) toDomain() *domain.Participant {
	return &domain.Participant{
		ID:              d.ID,
		Email:           d.Email,
		Username:        d.Username,
		TechStack:       d.TechStack,
		PasswordHash:    d.PasswordHash,
		Status:          domain.ParticipantStatus(d.Status),
		Matched:         d.Matched,
		PartnerID:       d.PartnerID,
		QuestionPart:    d.QuestionPart,
		AnswerPart:      d.AnswerPart,
		Hints:           nonNil(d.Hints),
		MeetingLocation: d.MeetingLocation.toDomain(),
		Verified:        d.Verified,
		VerifiedAt:      d.VerifiedAt,
		MatchedAt:       d.MatchedAt,
		RegisteredAt:    d.RegisteredAt,
		LastActive:      d.LastActive,
		Version:         d.Version,
	}
}

type questionDoc struct {
	ID        string    `bson:"_id"`
	Question  string    `bson:"question"`
	Answer    string    `bson:"answer"`
	Hints     []string  `bson:"hints"`
	TechStack *string   `bson:"techStack"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"createdAt"`
}

func fromQuestion(q *domain.Question) *questionDoc {
	return &questionDoc{
		ID:        q.ID,
		Question:  q.Question,
		Answer:    q.Answer,
		Hints:     nonNil(q.Hints),
		TechStack: q.TechStack,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
	}
}

func (d *questionDoc) toDomain() *domain.Question {
	return &domain.Question{
		ID:        d.ID,
		Question:  d.Question,
		Answer:    d.Answer,
		Hints:     nonNil(d.Hints),
		TechStack: d.TechStack,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
	}
}

type matchDoc struct {
	ID              string       `bson:"_id"`
	User1ID         string       `bson:"user1Id"`
	User2ID         string       `bson:"user2Id"`
	QuestionID      string       `bson:"questionId"`
	Question        string       `bson:"question"`
	Answer          string       `bson:"answer"`
	Hints           []string     `bson:"hints"`
	TechStack       *string      `bson:"techStack"`
	MeetingLocation *locationDoc `bson:"meetingLocation"`
	Status          string       `bson:"status"`
	Completed       bool         `bson:"completed"`
	CompletedAt     *time.Time   `bson:"completedAt"`
	CreatedAt       time.Time    `bson:"createdAt"`
}

func fromMatch(m *domain.Match) *matchDoc {
	return &matchDoc{
		ID:              m.ID,
		User1ID:         m.User1ID,
		User2ID:         m.User2ID,
		QuestionID:      m.QuestionID,
		Question:        m.Question,
		Answer:          m.Answer,
		Hints:           nonNil(m.Hints),
		TechStack:       m.TechStack,
		MeetingLocation: fromLocation(m.MeetingLocation),
		Status:          string(m.Status),
		Completed:       m.Completed,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
	}
}

func (d *matchDoc) toDomain() *domain.Match {
	return &domain.Match{
		ID:              d.ID,
		User1ID:         d.User1ID,
		User2ID:         d.User2ID,
		QuestionID:      d.QuestionID,
		Question:        d.Question,
		Answer:          d.Answer,
		Hints:           nonNil(d.Hints),
		TechStack:       d.TechStack,
		MeetingLocation: d.MeetingLocation.toDomain(),
		Status:          domain.MatchStatus(d.Status),
		Completed:       d.Completed,
		CompletedAt:     d.CompletedAt,
		CreatedAt:       d.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
