package game

import "errors"

var (
	// ErrInsufficientStake indicates a press with less than the minimum stake.
	ErrInsufficientStake = errors.New("game: insufficient stake")

	// ErrCountdownNotPassed indicates a payout attempt before the countdown
	// window has elapsed since the last press.
	ErrCountdownNotPassed = errors.New("game: countdown not passed")

	// ErrClockSkew indicates the host clock regressed to before the last
	// press. The operation fails without touching any state.
	ErrClockSkew = errors.New("game: clock skew")

	// ErrTerminated indicates the game has been permanently terminated by a
	// payout with terminate-on-payout configured.
	ErrTerminated = errors.New("game: terminated")
)
