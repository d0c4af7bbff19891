package xiangqi

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBoard            = errors.New("coordinate out of board")
	ErrInvalidMove           = errors.New("invalid move")
	ErrNotYourPiece          = errors.New("not your piece")
	ErrCannotCaptureOwnPiece = errors.New("cannot capture own piece")
	ErrNoHistory             = errors.New("no move to undo")
	ErrGameEnded             = errors.New("game already ended")
)

// Stable error codes shared with the DTO layer.
const (
	CodeOutOfBoard            = "OutOfBoard"
	CodeInvalidMove           = "InvalidMove"
	CodeNotYourPiece          = "NotYourPiece"
	CodeCannotCaptureOwnPiece = "CannotCaptureOwnPiece"
	CodeNoHistory             = "NoHistory"
	CodeGameEnded             = "GameEnded"
)

// MoveError is returned by Validate. It unwraps to one of the sentinel errors.
type MoveError struct {
	Err    error
	From   Coord
	To     Coord
	Kind   Kind
	Reason string
}

func (e *MoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s -> %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("%s -> %s: %v: %s", e.From, e.To, e.Err, e.Reason)
}

func (e *MoveError) Unwrap() error { return e.Err }

func moveErr(sentinel error, kind Kind, from, to Coord, reason string) error {
	return &MoveError{Err: sentinel, From: from, To: to, Kind: kind, Reason: reason}
}

// ErrorCode maps an error produced by this package to its stable code.
// Unknown errors map to "".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfBoard):
		return CodeOutOfBoard
	case errors.Is(err, ErrNotYourPiece):
		return CodeNotYourPiece
	case errors.Is(err, ErrCannotCaptureOwnPiece):
		return CodeCannotCaptureOwnPiece
	case errors.Is(err, ErrInvalidMove):
		return CodeInvalidMove
	case errors.Is(err, ErrNoHistory):
		return CodeNoHistory
	case errors.Is(err, ErrGameEnded):
		return CodeGameEnded
	default:
		return ""
	}
}

// Reason extracts the human readable rule failure, if any.
func Reason(err error) string {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason
	}
	return ""
}
