package model

// InboundMessage carries the fields the webhook path derives from a Telegram update.
// It lives only for the duration of one request.
type InboundMessage struct {
	UpdateID int
	ChatID   string
	UserID   string
	Text     string
}

// Outcome reports what happened to one side effect of the ingestion path.
type Outcome string

const (
	OutcomeDone    Outcome = "yes"
	OutcomeSkipped Outcome = "no"
	OutcomeFailed  Outcome = "error"
)

// WebhookResult exposes the persistence and notification outcomes separately;
// the two effects are not transactional with each other.
type WebhookResult struct {
	Persisted Outcome
	Notified  Outcome
	Message   *Message
}

func SkippedWebhookResult() *WebhookResult {
	return &WebhookResult{Persisted: OutcomeSkipped, Notified: OutcomeSkipped}
}
