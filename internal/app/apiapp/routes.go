package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/config"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	batchessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/batches"
	gallerysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/gallery"
	librarysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/library"
	noticessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/notices"
	userssvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/users"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	UserService    *userssvc.Service
	BatchService   *batchessvc.Service
	LibraryService *librarysvc.Service
	NoticeService  *noticessvc.Service
	GalleryService *gallerysvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

// RegisterRoutes lays the API out in tiers: public (health, login,
// published notices), authenticated reads (any role), content writes
// (editor or above), and user management (admin only).
func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Config.Auth.CookieSecure)
	healthHandler := handlers.NewHealthHandler()
	usersHandler := handlers.NewUsersHandler(deps.UserService)
	batchesHandler := handlers.NewBatchesHandler(deps.BatchService)
	libraryHandler := handlers.NewLibraryHandler(deps.LibraryService)
	noticesHandler := handlers.NewNoticesHandler(deps.NoticeService)
	galleryHandler := handlers.NewGalleryHandler(deps.GalleryService)

	requireAuth := AuthMiddleware(deps.AuthService, deps.Logger)
	requireEditor := RequireRole(enums.RoleEditor)
	requireAdmin := RequireRole(enums.RoleAdmin)

	r.Get("/health", healthHandler.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Published notices are public; a session, when present, lets
		// editors see drafts in the same listing.
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuth(deps.AuthService))
			r.Get("/notices", noticesHandler.List)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/check", authHandler.Check)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Get("/batches", batchesHandler.ListBatches)
			r.Get("/sections", batchesHandler.ListSections)
			r.Get("/notes", libraryHandler.ListNotes)
			r.Get("/papers", libraryHandler.ListPapers)
			r.Get("/notice-categories", noticesHandler.ListCategories)
			r.Get("/notices/{id}", noticesHandler.Get)
			r.Get("/gallery/categories", galleryHandler.ListCategories)
			r.Get("/gallery/images", galleryHandler.ListImages)

			r.Group(func(r chi.Router) {
				r.Use(requireEditor)

				r.Post("/batches", batchesHandler.CreateBatch)
				r.Put("/batches/{id}", batchesHandler.UpdateBatch)
				r.Delete("/batches/{id}", batchesHandler.DeleteBatch)

				r.Post("/sections", batchesHandler.CreateSection)
				r.Put("/sections/{id}", batchesHandler.UpdateSection)
				r.Delete("/sections/{id}", batchesHandler.DeleteSection)

				r.Post("/notes", libraryHandler.CreateNote)
				r.Put("/notes/{id}", libraryHandler.UpdateNote)
				r.Delete("/notes/{id}", libraryHandler.DeleteNote)

				r.Post("/papers", libraryHandler.CreatePaper)
				r.Put("/papers/{id}", libraryHandler.UpdatePaper)
				r.Delete("/papers/{id}", libraryHandler.DeletePaper)

				r.Post("/notice-categories", noticesHandler.CreateCategory)
				r.Put("/notice-categories/{id}", noticesHandler.UpdateCategory)
				r.Delete("/notice-categories/{id}", noticesHandler.DeleteCategory)

				r.Post("/notices", noticesHandler.Create)
				r.Put("/notices/{id}", noticesHandler.Update)
				r.Delete("/notices/{id}", noticesHandler.Delete)

				r.Post("/gallery/categories", galleryHandler.CreateCategory)
				r.Put("/gallery/categories/{id}", galleryHandler.UpdateCategory)
				r.Delete("/gallery/categories/{id}", galleryHandler.DeleteCategory)

				r.Post("/gallery/images", galleryHandler.Upload)
				r.Put("/gallery/images/{id}", galleryHandler.UpdateImage)
				r.Delete("/gallery/images/{id}", galleryHandler.DeleteImage)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/users", usersHandler.List)
				r.Post("/users", usersHandler.Create)
				r.Put("/users/{id}", usersHandler.Update)
				r.Delete("/users/{id}", usersHandler.Delete)
			})
		})
	})
}
