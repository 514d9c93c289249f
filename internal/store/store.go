package store

import (
	"errors"
	"sync"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
)

// lifecycle is the three-phase async state every container embeds: pending
// sets the loading flag, exactly one of fulfilled/rejected clears it. The
// mutex also guards the embedding container's slices.
type lifecycle struct {
	mu        sync.Mutex
	isLoading bool
	err       string
}

// pending marks an operation in flight. clearErr matches the original
// per-container behavior: not every container wiped its error on dispatch.
func (l *lifecycle) pending(clearErr bool) {
	l.mu.Lock()
	l.isLoading = true
	if clearErr {
		l.err = ""
	}
	l.mu.Unlock()
}

// fulfilled ends the pending phase and applies the container mutation while
// the lock is held.
func (l *lifecycle) fulfilled(apply func()) {
	l.mu.Lock()
	l.isLoading = false
	l.err = ""
	if apply != nil {
		apply()
	}
	l.mu.Unlock()
}

// rejected ends the pending phase with an error message. apply handles the
// container-specific list retention (some empty their slice, some keep it).
func (l *lifecycle) rejected(msg string, apply func()) {
	l.mu.Lock()
	l.isLoading = false
	l.err = msg
	if apply != nil {
		apply()
	}
	l.mu.Unlock()
}

func (l *lifecycle) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isLoading
}

func (l *lifecycle) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
