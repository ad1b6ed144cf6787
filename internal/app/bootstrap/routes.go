// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	gridfeature "github.com/dalemusser/crewgrid/internal/app/features/grid"
	healthfeature "github.com/dalemusser/crewgrid/internal/app/features/health"
	shotsfeature "github.com/dalemusser/crewgrid/internal/app/features/shots"
	viewsfeature "github.com/dalemusser/crewgrid/internal/app/features/views"
	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/bulk"
	allocationstore "github.com/dalemusser/crewgrid/internal/app/store/allocations"
	memberstore "github.com/dalemusser/crewgrid/internal/app/store/members"
	savedviewstore "github.com/dalemusser/crewgrid/internal/app/store/savedviews"
	shotstore "github.com/dalemusser/crewgrid/internal/app/store/shots"
	"github.com/dalemusser/crewgrid/internal/app/system/confirm"
	"github.com/dalemusser/crewgrid/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. CrewGrid builds its stores once
// here, shares one notify hub and one grid session manager across all
// features, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	allocations := allocationstore.New(db)
	members := memberstore.New(db)
	shots := shotstore.New(db)
	savedViews := savedviewstore.New(db)

	hub := notify.NewHub(logger)
	sessionMgr := gridsession.NewManager(allocations, members, shots, hub, logger)
	sessionMgr.DefaultRangeDays = appCfg.DefaultRangeDays
	bulkEngine := bulk.NewEngine(allocations, logger)
	confirmLedger := confirm.NewLedger(appCfg.ConfirmTTL)

	// Prefs cookie store: signed with the configured key, long lived.
	// Secure cookies are enabled in production mode.
	key := []byte(appCfg.PrefsKey)
	if len(key) == 0 {
		// No key configured: sign with an ephemeral one. Prefs cookies
		// reset on every restart in that case.
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("prefs_key not set; generated an ephemeral signing key")
	}
	prefs := sessions.NewCookieStore(key)
	prefs.Options = &sessions.Options{
		Path:     "/",
		Domain:   appCfg.PrefsDomain,
		MaxAge:   int(appCfg.PrefsMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   coreCfg.Env == "prod",
	}
	prefs.MaxAge(prefs.Options.MaxAge)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// The grid itself
	gridHandler := gridfeature.NewHandler(sessionMgr, bulkEngine, allocations, confirmLedger, hub, prefs, logger)
	gridHandler.Views = savedViews
	gridHandler.CookieName = appCfg.PrefsName
	r.Mount("/grid", gridfeature.Routes(gridHandler))

	// Saved views
	viewsHandler := viewsfeature.NewHandler(savedViews, logger)
	r.Mount("/views", viewsfeature.Routes(viewsHandler))

	// Shot registry
	shotsHandler := shotsfeature.NewHandler(shots, logger)
	r.Mount("/shots", shotsfeature.Routes(shotsHandler))

	return r, nil
}
