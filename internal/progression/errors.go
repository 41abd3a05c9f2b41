package progression

import (
	"errors"
	"fmt"
)

// Rejections. A rejected call leaves the player state untouched.
var (
	ErrInsufficientEnergy = errors.New("not enough energy")
	ErrInsufficientMoney  = errors.New("not enough money")
	ErrRushModeLocked     = errors.New("not allowed during exam rush")
	ErrNotAvailable       = errors.New("not available right now")
	ErrNoCourses          = errors.New("no courses to study")
	ErrGameOver           = errors.New("the game is over")
	ErrEventPending       = errors.New("an event is waiting for a choice")
	ErrUnknownChoice      = errors.New("unknown choice")
	ErrNoGame             = errors.New("no game in progress")
)

// RejectionError reports which action was refused and why.
type RejectionError struct {
	Action string
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func reject(action string, err error) error {
	return &RejectionError{Action: action, Err: err}
}

// IsRejection reports whether err is a precondition rejection rather than a
// fault.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
