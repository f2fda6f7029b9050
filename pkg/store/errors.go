package store

import (
	"errors"
	"fmt"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

// ErrNoProvider is returned by StoreContext.Use when no enclosing scope has
// provided the store. See error code E001.
var ErrNoProvider = errors.New("statekit: store accessor used outside its provider")

// ErrUnhandledAction is returned by Dispatch when the reducer does not
// recognize the action variant. State is unchanged. See error code E002.
var ErrUnhandledAction = errors.New("statekit: unsupported action")

// ErrReentrantDispatch is returned when Dispatch is called from inside an
// observer of the same store. See error code E003.
var ErrReentrantDispatch = errors.New("statekit: re-entrant dispatch")

// MissingProviderError names the accessor that was used outside its
// provider. It unwraps to ErrNoProvider.
type MissingProviderError struct {
	// Accessor is the name of the hook that failed, e.g. "counter.Use".
	Accessor string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("%s: %s called outside its provider", ierrors.New("E001"), e.Accessor)
}

func (e *MissingProviderError) Unwrap() error {
	return ErrNoProvider
}

// Coded returns the registry entry for this failure, for formatted CLI and
// log output.
func (e *MissingProviderError) Coded() *ierrors.Error {
	return ierrors.New("E001").WithDetail("accessor: %s", e.Accessor)
}

// UnhandledActionError carries the rejected action. It unwraps to
// ErrUnhandledAction.
type UnhandledActionError struct {
	Action Action
}

func (e *UnhandledActionError) Error() string {
	return fmt.Sprintf("%s: %q", ierrors.New("E002"), actionTag(e.Action))
}

func (e *UnhandledActionError) Unwrap() error {
	return ErrUnhandledAction
}

// Coded returns the registry entry for this failure.
func (e *UnhandledActionError) Coded() *ierrors.Error {
	return ierrors.New("E002").WithDetail("action: %q", actionTag(e.Action))
}

// NewUnhandledActionError is the error a reducer returns from its default
// case.
func NewUnhandledActionError(action Action) error {
	return &UnhandledActionError{Action: action}
}

func actionTag(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.ActionType()
}
