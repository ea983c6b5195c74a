package domain

import "time"

type MatchStatus string

const (
	MatchStatusActive              MatchStatus = "active"
	MatchStatusPendingVerification MatchStatus = "pending_verification"
	MatchStatusMatched             MatchStatus = "matched"
)

type Match struct {
	ID              string      `json:"id"`
	User1ID         string      `json:"user1Id"`
	User2ID         string      `json:"user2Id"`
	QuestionID      string      `json:"questionId"`
	Question        string      `json:"question"`
	Answer          string      `json:"answer"`
	Hints           []string    `json:"hints"`
	TechStack       *string     `json:"techStack"`
	MeetingLocation *Location   `json:"meetingLocation"`
	Status          MatchStatus `json:"status"`
	Completed       bool        `json:"completed"`
	CompletedAt     *time.Time  `json:"completedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Links reports whether m pairs a and b, in either order.
func (m *Match) Links(a, b string) bool {
	return (m.User1ID == a && m.User2ID == b) || (m.User1ID == b && m.User2ID == a)
}

func (m *Match) Complete(at time.Time) {
	completedAt := at
	m.Completed = true
	m.CompletedAt = &completedAt
	m.Status = MatchStatusMatched
}
