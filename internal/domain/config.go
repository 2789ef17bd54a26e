package domain

// OptInMode selects how new subscribers are added to the newsletter list.
type OptInMode string

const (
	// OptInSingle adds profiles to the list immediately.
	OptInSingle OptInMode = "single"
	// OptInDouble requires the subscriber to confirm via email first.
	OptInDouble OptInMode = "double"
)

// Suffix returns the list endpoint suffix for this opt-in mode.
// Single opt-in writes members directly; double opt-in goes through the
// subscribe endpoint so the provider sends a confirmation email.
func (m OptInMode) Suffix() string {
	if m == OptInSingle {
		return "/members"
	}
	return "/subscribe"
}

// Config holds the marketing settings for a store scope. It is owned by the
// host platform's admin storage and read on every dispatch; this module never
// writes it.
type Config struct {
	Enabled          bool      `json:"enabled"`
	WebhookEnabled   bool      `json:"webhook_enabled"`
	PublicAPIKey     string    `json:"public_api_key"`
	PrivateAPIKey    string    `json:"private_api_key"`
	NewsletterListID string    `json:"newsletter_list_id"`
	OptIn            OptInMode `json:"opt_in"`
}
