package holdem

import (
	"errors"
	"fmt"
)

var (
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrShuffleAfterDraw = errors.New("deck already dealt from")
	ErrHandInProgress   = errors.New("hand in progress")
	ErrHandNotSettled   = errors.New("previous hand not settled")
	ErrNoHand           = errors.New("no hand dealt")
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
	ErrSeedHashMismatch = errors.New("server seed does not match commitment")
	ErrDeckMismatch     = errors.New("deck order does not match seeds")
)

// InvalidPlayerCountError is returned when the table size is outside [MinPlayers, MaxPlayers].
type InvalidPlayerCountError int

func (e InvalidPlayerCountError) Error() string {
	return fmt.Sprintf("invalid player count %d: must be between %d and %d", int(e), MinPlayers, MaxPlayers)
}

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
