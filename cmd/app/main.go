package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"prepwise-backend/internal/config"
	"prepwise-backend/internal/controller"
	"prepwise-backend/internal/db"
	"prepwise-backend/internal/llm"
	"prepwise-backend/internal/model"
	"prepwise-backend/internal/repository"
	"prepwise-backend/internal/service"
	"prepwise-backend/internal/speech"
	"prepwise-backend/internal/storage"
	"prepwise-backend/pkg/middleware"
	"prepwise-backend/utilities"
)

func main() {
	printStartUpBanner()

	// Local .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utilities.InitLogging(cfg.Context.LogDir, cfg.RequestDump)

	db.InitDBFromConfig(cfg)
	if err := db.GetDB().AutoMigrate(
		&model.User{},
		&model.InterviewSession{},
		&model.InterviewQuestion{},
		&model.InterviewAnswer{},
		&model.QuestionNote{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	utilities.SetJWTSecrets(cfg.Authentication.AccessSecret, cfg.Authentication.RefreshSecret)

	if len(os.Args) > 1 && os.Args[1] == "seed-admin" {
		seedAdmin()
		return
	}

	// The AI layer is a hard dependency: refuse to start without it rather
	// than serve sessions that can never be scored.
	if cfg.THIRD_PARTY.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is not configured")
	}
	ctx := context.Background()
	llmClient, err := llm.NewGeminiClient(ctx, cfg.THIRD_PARTY.Gemini.APIKey, cfg.THIRD_PARTY.Gemini.Model)
	if err != nil {
		log.Fatalf("failed to initialize AI client: %v", err)
	}
	defer llmClient.Close()

	generator := llm.NewQuestionGenerator(llmClient)
	evaluator := llm.NewEvaluator(llmClient)
	summarizer := llm.NewSummarizer(llmClient)

	var transcriber speech.Transcriber
	if cfg.THIRD_PARTY.SpeechToText.Enabled {
		transcriber = speech.NewRESTTranscriber(cfg.THIRD_PARTY.SpeechToText)
		utilities.Info("transcription enabled via %s", cfg.THIRD_PARTY.SpeechToText.BaseURL)
	}

	store := storage.NewCloudinaryStore(cfg.THIRD_PARTY.Cloudinary)

	events := utilities.NewEventBus()
	events.Subscribe(utilities.EventSessionCompleted, func(data interface{}) {
		if result, ok := data.(*service.SessionResult); ok {
			utilities.Info("session %d completed: %.1f%% (%s)",
				result.SessionID, result.ScorePercentage, result.PerformanceLevel)
		}
	})
	events.Subscribe(utilities.EventAnswerDegraded, func(data interface{}) {
		if sessionID, ok := data.(uint); ok {
			utilities.Warn("degraded answer recorded for session %d", sessionID)
		}
	})

	userRepo := repository.NewUserRepository()
	interviewRepo := repository.NewInterviewRepository()
	noteRepo := repository.NewNoteRepository()

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	interviewService := service.NewInterviewService(
		interviewRepo, generator, evaluator, summarizer,
		transcriber, store, cfg.THIRD_PARTY.SpeechToText.Language, events,
	)
	historyService := service.NewHistoryService(interviewRepo)
	noteService := service.NewNoteService(noteRepo, interviewRepo)
	assistantService := service.NewAssistantService(llmClient)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	r.Use(middleware.RateLimitMiddleware(rate.Limit(10), 20))
	r.Use(utilities.AuthMiddleware())

	controller.RegisterRoutes(r,
		controller.NewAuthController(authService),
		controller.NewUserController(userService),
		controller.NewInterviewController(interviewService),
		controller.NewHistoryController(historyService),
		controller.NewNoteController(noteService),
		controller.NewReportController(interviewService),
		controller.NewAssistantController(assistantService),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", addr, err)
	}
	if cfg.Context.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Context.MaxConnections)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	utilities.Info("listening on %s", addr)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("PREPWISE", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("PREPWISE API (v%s)\n\n", "1.0.0")
}
