package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"progress-tracker-go/internal/config"
	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/services"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

type Server struct {
	Config     config.Config
	Store      store.Store
	Tracker    *services.Tracker
	Dashboards *services.Dashboard
	Images     *services.ImageStore
	Tokens     services.TokenService
	Hub        *services.EntryHub
	Parser     *validation.Parser
}

// TokenServiceFor builds the admin token service from configuration.
func TokenServiceFor(cfg config.Config) services.TokenService {
	return services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: time.Duration(cfg.AdminTokenTTLSeconds) * time.Second,
	}
}

func NewServer(cfg config.Config, st store.Store, profiles config.TrackingProfiles, hub *services.EntryHub) *Server {
	images := services.NewImageStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.MaxUploadSize, cfg.MinFreeDiskBytes)
	limits := services.DashboardLimits{
		HistoryMonths: cfg.StatsHistoryMonths,
		Recent:        cfg.RecentEntriesLimit,
		Dashboard:     cfg.DashboardEntriesLimit,
	}
	return &Server{
		Config:     cfg,
		Store:      st,
		Tracker:    services.NewTracker(st, images, hub, cfg.Location),
		Dashboards: services.NewDashboard(st, profiles, limits, cfg.Location),
		Images:     images,
		Tokens:     TokenServiceFor(cfg),
		Hub:        hub,
		Parser:     validation.NewParser(cfg.Location),
	}
}

func (s *Server) readingHandlers() entryHandlers[models.ReadingPatch, models.ReadingEntry] {
	return entryHandlers[models.ReadingPatch, models.ReadingEntry]{
		category: models.CategoryReading,
		label:    "Reading",
		parse:    s.Parser.Reading,
		list:     s.Tracker.ListReadings,
		get:      s.Tracker.GetReading,
		create:   s.Tracker.CreateReading,
		update:   s.Tracker.UpdateReading,
		remove:   s.Tracker.DeleteReading,
	}
}

func (s *Server) drawingHandlers() entryHandlers[models.DrawingPatch, models.DrawingEntry] {
	return entryHandlers[models.DrawingPatch, models.DrawingEntry]{
		category:  models.CategoryDrawing,
		label:     "Drawing",
		bodyLimit: s.Images.MaxSize,
		parse:     s.Parser.Drawing,
		list:      s.Tracker.ListDrawings,
		get:       s.Tracker.GetDrawing,
		create:    s.Tracker.CreateDrawing,
		update:    s.Tracker.UpdateDrawing,
		remove:    s.Tracker.DeleteDrawing,
		attach:    s.attachFormImage,
	}
}

func (s *Server) fitnessHandlers() entryHandlers[models.FitnessPatch, models.FitnessEntry] {
	return entryHandlers[models.FitnessPatch, models.FitnessEntry]{
		category: models.CategoryFitness,
		label:    "Fitness",
		parse:    s.Parser.Fitness,
		list:     s.Tracker.ListFitness,
		get:      s.Tracker.GetFitness,
		create:   s.Tracker.CreateFitness,
		update:   s.Tracker.UpdateFitness,
		remove:   s.Tracker.DeleteFitness,
	}
}

func (s *Server) journalHandlers() entryHandlers[models.JournalPatch, models.JournalEntry] {
	return entryHandlers[models.JournalPatch, models.JournalEntry]{
		category: models.CategoryJournal,
		label:    "Journal",
		dated:    true,
		parse:    s.Parser.Journal,
		list:     s.Tracker.ListJournal,
		get:      s.Tracker.GetJournal,
		create:   s.Tracker.CreateJournal,
		update:   s.Tracker.UpdateJournal,
		remove:   s.Tracker.DeleteJournal,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	reading := s.readingHandlers()
	drawing := s.drawingHandlers()
	fitness := s.fitnessHandlers()
	journal := s.journalHandlers()

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)
		api.Get("/dashboard", s.Dashboard)

		api.Route("/users", func(users chi.Router) {
			users.Get("/", s.ListUsers)
			users.Get("/{userId}", s.GetUser)
			users.With(WithAuth(s.Tokens), RequireRole(s.Tokens, services.RoleAdmin)).Post("/", s.CreateUser)
		})

		api.Route("/reading", reading.mount)
		api.Route("/drawing", func(drawings chi.Router) {
			drawings.Post("/upload-image", s.UploadImage)
			drawings.Post("/{entryId}/image", s.AttachImage)
			drawing.mount(drawings)
		})
		api.Route("/fitness", fitness.mount)
		api.Route("/journal", journal.mount)
	})

	r.Route("/web", func(web chi.Router) {
		reading.mountForms(web)
		drawing.mountForms(web)
		fitness.mountForms(web)
		journal.mountForms(web)
	})

	r.Get("/ws/entries", s.EntriesSocket)

	if prefix := s.Images.URLPrefix; strings.HasPrefix(prefix, "/") {
		r.Get(strings.TrimSuffix(prefix, "/")+"/*", s.ServeUpload)
	}
	return r
}
