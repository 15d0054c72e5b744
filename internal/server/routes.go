package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gitadaily/gita-daily-api/internal/auth"
	"github.com/gitadaily/gita-daily-api/internal/bookmarks"
	"github.com/gitadaily/gita-daily-api/internal/communities"
	"github.com/gitadaily/gita-daily-api/internal/leaderboard"
	"github.com/gitadaily/gita-daily-api/internal/reading"
	"github.com/gitadaily/gita-daily-api/internal/streaks"
	"github.com/gitadaily/gita-daily-api/internal/users"
	"github.com/gitadaily/gita-daily-api/internal/verses"
	"github.com/gitadaily/gita-daily-api/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)

	r.Route("/gita-daily-api/v1", func(r chi.Router) {
		s.loadUserRoutes(r)
		s.loadVerseRoutes(r)
		s.loadReadingRoutes(r)
		s.loadCommunityRoutes(r)
		s.loadBookmarkRoutes(r)
	})
	r.Get("/gita-daily-api/v1", s.ServerIsWorking)

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to Gita Daily api"
	response.Success(w, resp, "Success")
}

func (s *Server) loadUserRoutes(router chi.Router) {
	usersRepo := users.NewRepository(s.db)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(usersService)

	router.Post("/users/sync", usersHandler.SyncHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Get("/users/me", usersHandler.GetMeHandler)
		r.Patch("/users/me", usersHandler.UpdateProfileHandler)
	})
}

func (s *Server) loadVerseRoutes(router chi.Router) {
	versesRepo := verses.NewRepository(s.db)
	versesHandler := verses.NewHandler(versesRepo)

	router.Group(func(r chi.Router) {
		r.Get("/verses/{chapter}", versesHandler.GetChapterHandler)
		r.Get("/verses/{chapter}/{verse}", versesHandler.GetVerseHandler)
	})
}

func (s *Server) loadReadingRoutes(router chi.Router) {
	usersRepo := users.NewRepository(s.db)
	versesRepo := verses.NewRepository(s.db)

	streaksRepo := streaks.NewRepository(s.db)
	streaksService := streaks.NewService(streaksRepo, usersRepo)
	streaksHandler := streaks.NewHandler(streaksService)

	readingRepo := reading.NewRepository(s.db)
	readingService := reading.NewService(readingRepo, versesRepo, usersRepo, &streaksService)
	readingHandler := reading.NewHandler(readingService)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/reading/today", readingHandler.GetTodaySetHandler)
		r.Post("/reading/read", readingHandler.MarkReadHandler)
		r.Post("/reading/reread", readingHandler.RereadHandler)
		r.Get("/reading/progress", readingHandler.GetProgressHandler)

		r.Get("/streaks", streaksHandler.GetStreakHandler)
		r.Get("/streaks/stats", streaksHandler.GetStatsHandler)
		r.Post("/streaks/check", streaksHandler.CheckHandler)
	})
}

func (s *Server) loadCommunityRoutes(router chi.Router) {
	communitiesRepo := communities.NewRepository(s.db)
	communitiesService := communities.NewService(communitiesRepo)
	communitiesHandler := communities.NewHandler(communitiesService)

	leaderboardRepo := leaderboard.NewRepository(s.db)
	leaderboardService := leaderboard.NewService(leaderboardRepo, communitiesRepo)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Post("/communities", communitiesHandler.CreateHandler)
		r.Get("/communities/public", communitiesHandler.ListPublicHandler)
		r.Get("/communities/mine", communitiesHandler.ListMineHandler)
		r.Post("/communities/join", communitiesHandler.JoinByCodeHandler)
		r.Get("/communities/active", communitiesHandler.GetActiveHandler)
		r.Post("/communities/{communityID}/join", communitiesHandler.JoinHandler)
		r.Post("/communities/{communityID}/leave", communitiesHandler.LeaveHandler)
		r.Get("/communities/{communityID}/members", communitiesHandler.MembersHandler)
		r.Put("/communities/{communityID}/active", communitiesHandler.SetActiveHandler)

		r.Get("/leaderboard/global", leaderboardHandler.GetGlobalHandler)
		r.Get("/leaderboard/communities/{communityID}", leaderboardHandler.GetCommunityHandler)
	})
}

func (s *Server) loadBookmarkRoutes(router chi.Router) {
	versesRepo := verses.NewRepository(s.db)
	bookmarksRepo := bookmarks.NewRepository(s.db)
	bookmarksService := bookmarks.NewService(bookmarksRepo, versesRepo)
	bookmarksHandler := bookmarks.NewHandler(bookmarksService)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/bookmarks/buckets", bookmarksHandler.ListBucketsHandler)
		r.Post("/bookmarks/buckets", bookmarksHandler.CreateBucketHandler)
		r.Get("/bookmarks/buckets/{bucketID}", bookmarksHandler.ListBucketHandler)
		r.Patch("/bookmarks/buckets/{bucketID}", bookmarksHandler.RenameBucketHandler)
		r.Delete("/bookmarks/buckets/{bucketID}", bookmarksHandler.DeleteBucketHandler)
		r.Patch("/bookmarks/toggle", bookmarksHandler.ToggleHandler)
		r.Get("/bookmarks/verses/{verseID}", bookmarksHandler.StatusHandler)
	})
}
