package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dhruv-gautam16/youtube-twin/app/api"
	"github.com/dhruv-gautam16/youtube-twin/store"
	"github.com/dhruv-gautam16/youtube-twin/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	cfg    types.Config
	logger *slog.Logger
}

func NewServer(cfg types.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	videoStore, err := s.newVideoStore()
	if err != nil {
		log.Fatal("error to create video store: ", err)
		return
	}

	var (
		app          = fiber.New(config)
		checkHandler = api.NewCheckHandler()
		videoHandler = api.NewVideoHandler(videoStore, s.cfg)
		check        = app.Group("/check")
		apiv1        = app.Group("/api/v1")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/process-video", videoHandler.HandleProcessVideo)
	apiv1.Post("/chat", videoHandler.HandleChat)
	apiv1.Post("/get-transcript", videoHandler.HandleGetTranscript)
	apiv1.Post("/search-transcript", videoHandler.HandleSearchTranscript)

	if err := app.Listen(s.cfg.ServerAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

func (s *Server) newVideoStore() (store.VideoStorer, error) {
	if s.cfg.StoreBackend != "postgres" {
		return store.NewMemoryStore(), nil
	}

	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))

	pg, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		return nil, err
	}
	if err := pg.Init(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}
