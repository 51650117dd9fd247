// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

// tally returns the id of the first proposal holding the highest vote count.
// A later proposal only takes the lead with a strictly greater count.
func tally(proposals []Proposal) int {
	winner := 0
	for id := range proposals {
		if proposals[id].VoteCount > proposals[winner].VoteCount {
			winner = id
		}
	}
	return winner
}
