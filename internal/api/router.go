package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/parenthaven/backend/internal/api/handler"
	customMiddleware "github.com/parenthaven/backend/internal/api/middleware"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/config"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/llm"
	"github.com/parenthaven/backend/internal/llm/gemini"
	"github.com/parenthaven/backend/internal/llm/ollama"
	"github.com/parenthaven/backend/internal/llm/openai"
	"github.com/parenthaven/backend/internal/media"
	"github.com/parenthaven/backend/internal/repository/postgres"
	"github.com/parenthaven/backend/internal/repository/redis"
	"github.com/parenthaven/backend/internal/retrieval"
	"github.com/parenthaven/backend/internal/security"
	"github.com/parenthaven/backend/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	diaryRepo := postgres.NewDiaryRepository(db)
	turnRepo := postgres.NewTurnRepository(db)
	_ = postgres.NewPassageRepository(db)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Chat.RateLimit.RequestsPerMinute,
		cfg.Chat.RateLimit.Burst,
	)

	// Embedding backend for passage search
	var embedder retrieval.Embedder
	switch cfg.Retrieval.Provider {
	case "ollama":
		embedder = retrieval.NewOllamaEmbedder(cfg.LLM.Ollama.Host, cfg.Retrieval.OllamaModel)
	default:
		embedder = retrieval.NewGeminiEmbedder(cfg.LLM.Gemini.APIKey, cfg.Retrieval.GeminiModel)
	}
	retriever := retrieval.NewPGVectorRetriever(db.Pool, embedder)

	// Completion providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	provider, err := llmRouter.GetProvider("")
	if err != nil {
		log.Fatal().Err(err).Msg("No usable completion provider")
	}

	// Conversation state
	sessions := chat.NewMemorySessionStore()

	var feedbackStore domain.FeedbackStore
	switch cfg.Chat.FeedbackStore {
	case "redis":
		feedbackStore = redis.NewFeedbackStore(redisClient)
	case "postgres":
		feedbackStore = postgres.NewFeedbackStore(db)
	default:
		feedbackStore = chat.NewMemoryFeedbackStore()
	}

	var suppressor chat.Suppressor
	switch cfg.Chat.FeedbackStrategy {
	case "content":
		suppressor = chat.NewContentSuppressor()
	default:
		suppressor = chat.NewPositionalSuppressor(feedbackStore)
	}

	pipeline := chat.NewPipeline(
		retriever,
		provider,
		provider.DefaultModel(),
		sessions,
		suppressor,
		turnRepo,
		chat.Options{
			TopK:              cfg.Chat.TopK,
			MaxContextChars:   cfg.Chat.MaxContextChars,
			HistoryLimit:      cfg.Chat.HistoryLimit,
			RetrievalTimeout:  cfg.Chat.RetrievalTimeout,
			GenerationTimeout: cfg.Chat.GenerationTimeout,
		},
	)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	diaryService := service.NewDiaryService(diaryRepo)

	extractors := media.NewExtractorRegistry(media.NewPlainTextExtractor())

	// Handlers
	chatHandler := handler.NewChatHandler(pipeline, sessions)
	feedbackHandler := handler.NewFeedbackHandler(suppressor)
	sessionHandler := handler.NewSessionHandler(sessions, turnRepo)
	authHandler := handler.NewAuthHandler(authService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	mediaHandler := handler.NewMediaHandler(
		extractors,
		pipeline,
		sessions,
		nil, // no speech-to-text backend yet
		nil, // no text-to-speech backend yet
		cfg.Media.UploadDir,
		cfg.Media.TempAudioDir,
		cfg.Media.MaxUploadMB,
	)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Chat routes: public, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/chat", chatHandler.Ask)
			r.Post("/feedback", feedbackHandler.Submit)
			r.Post("/upload", mediaHandler.Upload)
			r.Post("/voice-query", mediaHandler.VoiceQuery)
		})

		r.Get("/voice-reply/{filename}", mediaHandler.VoiceReply)

		// Session routes
		r.Route("/session", func(r chi.Router) {
			r.Get("/new", sessionHandler.New)
			r.Post("/clear", sessionHandler.Clear)
			r.Get("/{sessionID}/history", sessionHandler.History)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/diary", func(r chi.Router) {
				r.Get("/", diaryHandler.List)
				r.Post("/", diaryHandler.Create)

				r.Route("/{entryID}", func(r chi.Router) {
					r.Get("/", diaryHandler.Get)
					r.Put("/", diaryHandler.Update)
					r.Delete("/", diaryHandler.Delete)
				})
			})
		})
	})

	return r
}
