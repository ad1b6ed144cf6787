// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CrewGrid has no templates or caches to warm; startup just records
// that the service is about to serve.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("crewgrid starting",
		zap.String("database", appCfg.MongoDatabase),
		zap.Int("default_range_days", appCfg.DefaultRangeDays))
	return nil
}
