package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	cmdbus "github.com/ndlib/mellon-blueprints/application/commands/bus"
	querybus "github.com/ndlib/mellon-blueprints/application/queries/bus"
	"github.com/ndlib/mellon-blueprints/interfaces/http/rest/handlers"
	"github.com/ndlib/mellon-blueprints/interfaces/http/rest/middleware"
	"github.com/ndlib/mellon-blueprints/pkg/auth"
	"github.com/ndlib/mellon-blueprints/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.library.nd.edu"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Reads work anonymously; the caller is attached when a valid
		// token is present so visibility rules can use it.
		r.Use(middleware.OptionalAuthenticate(rt.validator))

		itemHandler := handlers.NewItemHandler(rt.commandBus, rt.queryBus, rt.logger)
		supplementalHandler := handlers.NewSupplementalDataHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/items", func(r chi.Router) {
			r.Get("/{itemID}", itemHandler.GetItem)
			r.Get("/{itemID}/children", itemHandler.ListChildren)
			r.Get("/{itemID}/supplemental", supplementalHandler.ListForItem)
			r.Get("/{itemID}/supplemental/{dataID}", supplementalHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator))
				r.Post("/", itemHandler.SaveItem)
				r.Patch("/{itemID}", itemHandler.UpdateItem)
				r.Post("/{itemID}/supplemental", supplementalHandler.Save)
				r.Delete("/{itemID}/supplemental/{dataID}", supplementalHandler.Delete)
			})
		})

		websiteHandler := handlers.NewWebsiteHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/websites", func(r chi.Router) {
			r.Get("/", websiteHandler.ListWebsites)
			r.Get("/{websiteName}", websiteHandler.GetWebsite)
			r.Get("/{websiteName}/items", websiteHandler.ListItems)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator))
				r.Post("/", websiteHandler.SaveWebsite)
			})
		})

		fileGroupHandler := handlers.NewFileGroupHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/file-groups", func(r chi.Router) {
			r.Get("/", fileGroupHandler.ListFileGroups)
			r.Get("/{groupID}", fileGroupHandler.GetFileGroup)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator))
				r.Post("/", fileGroupHandler.SaveFileGroup)
			})
		})

		portfolioHandler := handlers.NewPortfolioHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/featured", portfolioHandler.ListFeatured)
			r.Get("/users/{userID}", portfolioHandler.GetUser)
			r.Get("/users/{userID}/collections", portfolioHandler.ListCollections)
			r.Get("/users/{userID}/collections/{collectionID}", portfolioHandler.GetCollection)
			r.Get("/collections/{collectionID}/items", portfolioHandler.ListItems)
			r.Get("/collections/{collectionID}/items/{portfolioItemID}", portfolioHandler.GetItem)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator))
				r.Put("/profile", portfolioHandler.SaveProfile)
				r.Post("/collections", portfolioHandler.SaveCollection)
				r.Delete("/collections/{collectionID}", portfolioHandler.DeleteCollection)
				r.Post("/collections/{collectionID}/items", portfolioHandler.SaveItem)
				r.Delete("/collections/{collectionID}/items/{portfolioItemID}", portfolioHandler.DeleteItem)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
