// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

// Contract violations. Operations wrap these with detail; match with errors.Is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidPhase      = errors.New("invalid phase")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrAlreadyVoted      = errors.New("already voted")
	ErrEmptyProposal     = errors.New("empty proposal")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrInvalidPhase, "invalid_phase"},
	{ErrAlreadyRegistered, "already_registered"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrEmptyProposal, "empty_proposal"},
	{ErrProposalNotFound, "proposal_not_found"},
	{ErrIndexOutOfRange, "index_out_of_range"},
}

// ErrorCode returns a stable identifier for a contract violation, or "" when
// err is not one of the engine's errors.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}
