// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "fmt"

// guard is a precondition evaluated with e.mu held.
type guard func(e *Engine, caller Identity) error

// guard runs checks in order and returns the first failure.
func (e *Engine) guard(caller Identity, checks ...guard) error {
	for _, check := range checks {
		if err := check(e, caller); err != nil {
			return err
		}
	}
	return nil
}

func onlyAdmin(e *Engine, caller Identity) error {
	if caller != e.admin {
		return fmt.Errorf("%w: caller is not the owner", ErrUnauthorized)
	}
	return nil
}

func onlyVoter(e *Engine, caller Identity) error {
	if !e.voters[caller].IsRegistered {
		return fmt.Errorf("%w: caller is not a voter", ErrUnauthorized)
	}
	return nil
}

func inPhase(want Phase, action string) guard {
	return func(e *Engine, _ Identity) error {
		if e.phase != want {
			return fmt.Errorf("%w: %s requires %s, current phase is %s", ErrInvalidPhase, action, want, e.phase)
		}
		return nil
	}
}
