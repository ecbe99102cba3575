package router

import (
	"net/http"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/container"
	"github.com/oksasatya/go-places-api/internal/infrastructure/search"
	"github.com/oksasatya/go-places-api/internal/infrastructure/session"
	handlers "github.com/oksasatya/go-places-api/internal/interface/http"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
	"github.com/oksasatya/go-places-api/internal/router/modules"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/metrics"
)

// Deps is everything the route modules need, built once from the container.
type Deps struct {
	Users     *application.Service
	Places    *application.PlaceService
	Auth      *application.Authenticator
	Resources *application.ResourceManager
	Metrics   http.Handler // nil disables /api/metrics
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	pub := container.JobPublisher()

	var sessions application.SessionStore
	if rdb := container.GetRedis(); rdb != nil {
		sessions = session.NewRedisStore(rdb)
	}
	var index application.PlaceIndex
	if es := container.GetES(); es != nil {
		index = search.NewPlaceIndex(es, cfg.ESPlacesIndex)
	}

	resources := application.NewResourceManager(container.GetFiles(), pub, logger)

	users := application.NewService(store.Users, container.GetJWT(), helpers.NewBcryptHasher(0), sessions, pub, logger)
	users.AppName = cfg.AppName
	users.SessionTTL = cfg.AccessTTL
	users.StoreTimeout = cfg.DBQueryTimeout

	places := application.NewPlaceService(store.Users, store.Places, store.Tx, container.GetGeocoder(), index, resources, logger, cfg.DBQueryTimeout)

	deps := Deps{
		Users:     users,
		Places:    places,
		Auth:      application.NewAuthenticator(container.GetJWT(), sessions),
		Resources: resources,
	}
	if cfg.MetricsEnabled {
		deps.Metrics = metrics.Handler()
	}
	return deps
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}

// Mount adds the route modules for deps to the registry.
func Mount(r *Registry, d Deps) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	upload := middleware.ImageUpload("image", cfg.MaxUploadBytes, container.GetFiles(), d.Resources)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, logger, cfg.CookieDomain, cfg.CookieSecure), d.Auth, upload, rdb))
	r.Add(modules.NewPlaceModule(handlers.NewPlaceHandler(d.Places, logger), d.Auth, upload, rdb))
	if d.Metrics != nil {
		r.Add(modules.NewMetricsModule(d.Metrics))
	}
}
