package consts

import "time"

// Redis key prefixes
const (
	UserTokenKey = "cre:user:token:"
	UserInfoKey  = "cre:user:info:"
)

// InvitationTTL is how long an issued invitation token remains redeemable.
// Expiry is evaluated against invitation_sent_at at redeem time; nothing is
// scheduled.
const InvitationTTL = 7 * 24 * time.Hour

// Locals keys used by the unified response middleware.
const (
	// DETAIL carries response data, e.g. query or list results.
	// e.g: c.Locals(consts.DETAIL, value)
	DETAIL = "detail"

	// OPERATION marks a mutation that returns only an operation result.
	// e.g: c.Locals(consts.OPERATION, "")
	OPERATION = "operation"

	// CLAIMS carries the parsed token claims set by the auth middleware.
	CLAIMS = "claims"
)
