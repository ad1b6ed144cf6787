// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CrewGrid.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, prefs_name, etc.
//   - Environment variables: CREWGRID_MONGO_URI, CREWGRID_PREFS_NAME, etc.
//   - Command-line flags: --mongo_uri, --prefs_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "crewgrid", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "prefs_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Prefs cookie signing key (must be strong in production)"},
	{Name: "prefs_name", Default: "crewgrid_prefs", Desc: "Prefs cookie name"},
	{Name: "prefs_domain", Default: "", Desc: "Prefs cookie domain (blank means current host)"},
	{Name: "prefs_max_age", Default: "8760h", Desc: "Prefs cookie lifetime (e.g., 8760h for a year)"},

	{Name: "default_range_days", Default: 14, Desc: "Visible day columns in a fresh grid session"},
	{Name: "confirm_ttl", Default: "2m", Desc: "Bulk-operation confirm token lifetime (e.g., 2m, 90s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CREWGRID_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CREWGRID", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		PrefsKey:    appValues.String("prefs_key"),
		PrefsName:   appValues.String("prefs_name"),
		PrefsDomain: appValues.String("prefs_domain"),
		PrefsMaxAge: appValues.Duration("prefs_max_age", 365*24*time.Hour),

		DefaultRangeDays: appValues.Int("default_range_days"),
		ConfirmTTL:       appValues.Duration("confirm_ttl", 2*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// CrewGrid validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects unusable
// grid defaults.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.DefaultRangeDays < 1 {
		return fmt.Errorf("default_range_days must be at least 1, got %d", appCfg.DefaultRangeDays)
	}
	if appCfg.ConfirmTTL <= 0 {
		return fmt.Errorf("confirm_ttl must be positive, got %s", appCfg.ConfirmTTL)
	}
	if len(appCfg.PrefsKey) < 32 {
		logger.Warn("prefs_key is short; use at least 32 bytes in production")
	}
	return nil
}
