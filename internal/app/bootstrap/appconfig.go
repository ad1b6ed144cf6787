// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to CrewGrid. The
// values come from config files, CREWGRID_* environment variables, or
// command-line flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Prefs cookie configuration. The cookie carries the grid session id
	// and the coordinator's client-local preferences; it is signed with
	// PrefsKey.
	PrefsKey    string // Secret key for signing the prefs cookie (must be strong in production)
	PrefsName   string // Cookie name (default: crewgrid_prefs)
	PrefsDomain string // Cookie domain (blank means current host)
	PrefsMaxAge time.Duration

	// Grid defaults applied when no saved default view exists.
	DefaultRangeDays int // Visible day columns in a fresh session

	// ConfirmTTL bounds how long a bulk-operation confirm token stays
	// redeemable after preview.
	ConfirmTTL time.Duration
}
