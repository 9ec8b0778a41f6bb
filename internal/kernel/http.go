// Package kernel assembles the HTTP handler: middleware stack, operational
// endpoints, static uploads, and the API routes.
package kernel

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/themelissanyc/melissa/app/controllers"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/app/routes"
	"github.com/themelissanyc/melissa/app/services"
	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/metrics"
	"github.com/themelissanyc/melissa/pkg/middleware"
	"github.com/themelissanyc/melissa/pkg/reqid"
	"github.com/themelissanyc/melissa/pkg/response"
	"github.com/themelissanyc/melissa/pkg/router"
)

// Kernel owns the assembled handler and the background services it started.
type Kernel struct {
	router *router.Router
	notify *services.NotifyService
}

// New builds the kernel against the given database.
func New(db *mongo.Database) *Kernel {
	users := repositories.NewMongoUserRepository(db)
	units := repositories.NewMongoUnitRepository(db)
	contacts := repositories.NewMongoContactRepository(db)
	gallery := repositories.NewMongoGalleryRepository(db)

	notify := services.NewNotifyService()

	r := router.New()

	// Middleware stack, outermost first: metrics wraps everything for
	// accurate latency, recovery catches panics from all below, the request
	// ID must exist before the logger runs, CORS before any handler writes,
	// and the rate limiter rejects abusers last so rejections are logged.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS)
	r.Use(middleware.NewLimiter(200, time.Minute).Middleware)

	r.Get("/metrics", metrics.Handler())
	r.Get("/api/health", health)
	r.Get("/api", root)

	uploads := http.FileServer(http.Dir(config.UploadDir()))
	r.Mount("/uploads", http.StripPrefix("/uploads/", uploads))

	r.NotFound(notFound)

	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(services.NewAuthService(users)),
		Units:    controllers.NewUnitController(units),
		Contacts: controllers.NewContactController(contacts, notify),
		Gallery:  controllers.NewGalleryController(gallery),
		Users:    services.NewAuthUserSource(users),
	})

	return &Kernel{router: r, notify: notify}
}

// Handler returns the root http.Handler.
func (k *Kernel) Handler() http.Handler {
	return k.router.Handler()
}

// Shutdown drains background work (queued inquiry notifications).
func (k *Kernel) Shutdown() {
	k.notify.Shutdown()
}

func health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": config.AppEnv(),
	})
}

func root(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"message": "The Melissa backend API is running",
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusNotFound, map[string]interface{}{
		"message": "API endpoint not found",
		"availableEndpoints": []string{
			"/api/health", "/api/units", "/api/contacts", "/api/gallery",
		},
	})
}
