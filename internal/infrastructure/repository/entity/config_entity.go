package entity

import (
	"time"

	"commerce-klaviyo-layer/internal/domain"
)

// MongoMarketingConfigDoc is the host platform's admin settings document for
// the marketing integration. This module only ever reads it.
type MongoMarketingConfigDoc struct {
	Scope            string    `bson:"scope"`
	Enabled          bool      `bson:"enabled"`
	WebhookEnabled   bool      `bson:"webhookEnabled"`
	PublicAPIKey     string    `bson:"publicApiKey"`
	PrivateAPIKey    string    `bson:"privateApiKey"`
	NewsletterListID string    `bson:"newsletterListId"`
	OptIn            string    `bson:"optIn"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

// ToDomain converts the settings document to the domain configuration.
func (d *MongoMarketingConfigDoc) ToDomain() *domain.Config {
	optIn := domain.OptInMode(d.OptIn)
	if optIn != domain.OptInSingle && optIn != domain.OptInDouble {
		optIn = domain.OptInDouble
	}
	return &domain.Config{
		Enabled:          d.Enabled,
		WebhookEnabled:   d.WebhookEnabled,
		PublicAPIKey:     d.PublicAPIKey,
		PrivateAPIKey:    d.PrivateAPIKey,
		NewsletterListID: d.NewsletterListID,
		OptIn:            optIn,
	}
}
