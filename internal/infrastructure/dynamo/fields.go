package dynamo

// DynamoDB attribute names used in update and condition expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldPasswordHash     = "password_hash"
	fieldResetToken       = "reset_token"
	fieldResetTokenExpiry = "reset_token_expiry"
)
