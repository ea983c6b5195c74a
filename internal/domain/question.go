package domain

import "time"

type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Hints     []string  `json:"hints"`
	TechStack *string   `json:"techStack"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultQuestion is handed out when the bank has no active entries.
func DefaultQuestion() *Question {
	return &Question{
		ID:       "default",
		Question: "What architectural style defines stateless communication between client and server?",
		Answer:   "REST",
		Hints: []string{
			"Think about web services",
			"Involves client-server communication",
			"Stateless architecture",
		},
		Active: true,
	}
}

type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TechStacks are the category tags participants and questions may carry.
var TechStacks = []string{"frontend", "backend", "fullstack", "mobile", "devops", "ai"}

func ValidTechStack(s string) bool {
	for _, t := range TechStacks {
		if t == s {
			return true
		}
	}
	return false
}
