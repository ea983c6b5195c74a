package domain

import "time"

type ParticipantStatus string

const (
	StatusWaiting             ParticipantStatus = "waiting"
	StatusPendingVerification ParticipantStatus = "pending_verification"
	StatusMatched             ParticipantStatus = "matched"
	StatusDelayMatching       ParticipantStatus = "delay_matching"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusPendingVerification, StatusMatched, StatusDelayMatching:
		return true
	}
	return false
}

// Participant is one registered attendee. Matched means the pairing
// has been confirmed by verification, not merely assigned.
type Participant struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"`
	Username        string            `json:"username"`
	TechStack       *string           `json:"techStack"`
	PasswordHash    string            `json:"-"`
	Status          ParticipantStatus `json:"status"`
	Matched         bool              `json:"matched"`
	PartnerID       *string           `json:"partnerId"`
	QuestionPart    *string           `json:"questionPart"`
	AnswerPart      *string           `json:"answerPart"`
	Hints           []string          `json:"hints"`
	MeetingLocation *Location         `json:"meetingLocation"`
	Verified        bool              `json:"verified"`
	VerifiedAt      *time.Time        `json:"verifiedAt"`
	MatchedAt       *time.Time        `json:"matchedAt"`
	RegisteredAt    time.Time         `json:"registeredAt"`
	LastActive      time.Time         `json:"lastActive"`
	Version         int64             `json:"version"`
}

func (p *Participant) HasPartner() bool {
	return p.PartnerID != nil && *p.PartnerID != ""
}

// IsAvailable reports whether p may be picked by a matchmaking scan.
func (p *Participant) IsAvailable() bool {
	return p.Status == StatusWaiting && !p.Matched && !p.HasPartner()
}

// Assign gives p its half of a pairing. Exactly one of questionPart and
// answerPart is set depending on holdsQuestion.
func (p *Participant) Assign(partnerID string, q *Question, holdsQuestion bool, loc *Location, at time.Time) {
	partner := partnerID
	p.PartnerID = &partner
	p.QuestionPart = nil
	p.AnswerPart = nil
	if holdsQuestion {
		text := q.Question
		p.QuestionPart = &text
	} else {
		text := q.Answer
		p.AnswerPart = &text
	}
	p.Hints = append([]string{}, q.Hints...)
	if loc != nil {
		l := *loc
		p.MeetingLocation = &l
	} else {
		p.MeetingLocation = nil
	}
	p.Matched = false
	p.Status = StatusPendingVerification
	p.Verified = false
	p.VerifiedAt = nil
	matchedAt := at
	p.MatchedAt = &matchedAt
}

func (p *Participant) MarkVerified(at time.Time) {
	verifiedAt := at
	p.Verified = true
	p.VerifiedAt = &verifiedAt
	p.Matched = true
	p.Status = StatusMatched
}

// ClearMatch returns p to the state of a freshly registered participant.
func (p *Participant) ClearMatch() {
	p.PartnerID = nil
	p.QuestionPart = nil
	p.AnswerPart = nil
	p.Hints = []string{}
	p.MeetingLocation = nil
	p.Matched = false
	p.MatchedAt = nil
	p.Verified = false
	p.VerifiedAt = nil
	p.Status = StatusWaiting
}

func (p *Participant) TechStackValue() string {
	if p.TechStack == nil {
		return ""
	}
	return *p.TechStack
}

// ParticipantFilter is an equality filter for participant scans.
// Zero values are ignored.
type ParticipantFilter struct {
	Status     ParticipantStatus
	Matched    *bool
	TechStack  string
	HasPartner *bool
	Email      string
	Username   string
	Limit      int
	Offset     int
}
