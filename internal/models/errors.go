package models

import "errors"

// Sentinel errors surfaced by the engine. NotFound and AlreadyVoted are
// expected, recoverable-by-caller conditions; anything else propagating from
// the store is a persistence failure and is returned unmodified.
var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyVoted        = errors.New("user has already cast this vote")
	ErrInvalidVoteType     = errors.New("invalid vote type")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")
	ErrNotCreator          = errors.New("only the creator may attach credits")
)

// IsDomainError reports whether err is one of the expected domain
// conditions, as opposed to a persistence failure.
func IsDomainError(err error) bool {
	for _, sentinel := range []error{
		ErrLocationNotFound,
		ErrUserNotFound,
		ErrAlreadyVoted,
		ErrInvalidVoteType,
		ErrInsufficientCredits,
		ErrInvalidCreditAmount,
		ErrNotCreator,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
