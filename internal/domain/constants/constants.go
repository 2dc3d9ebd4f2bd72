// Package constants holds string values shared between configuration and infrastructure.
package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Notification channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelPush     = "push"
)
