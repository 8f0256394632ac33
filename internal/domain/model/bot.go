package model

// BotIdentity is the descriptor returned by getMe. Used for startup diagnostics only.
type BotIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
