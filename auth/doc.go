// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the credentials that bind HTTP callers to engine
identities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(sessionID, salt)
	err := auth.ValidateAdminKey(sessionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same session ID and salt always produce the same key. This allows
validation without storing the key anywhere.

# Voter Keys

Voter keys are derived the same way from the session ID and the voter
identity, with a separate salt:

	voterKey := auth.GenerateVoterKey(sessionID, "bob", salt)
	err := auth.ValidateVoterKey(sessionID, "bob", voterKey, salt)

Registering a voter returns its key; the administrator hands it over out of
band. A key only works for the identity and session it was made for.

# Identities

	err := auth.ValidateIdentity("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")

Identities are 1-128 printable characters without whitespace.
*/
package auth
