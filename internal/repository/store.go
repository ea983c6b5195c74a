package repository

import "context"

// Store groups the three record sets. WithTx runs fn against a Store whose
// writes commit together or not at all; fn must use the Store and context it
// is given. Calling WithTx on a transactional Store reuses the transaction.
type Store interface {
	Participants() ParticipantRepository
	Questions() QuestionRepository
	Matches() MatchRepository
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
