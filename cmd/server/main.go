package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openfab/boardquote/internal/calendar"
	"github.com/openfab/boardquote/internal/config"
	"github.com/openfab/boardquote/internal/db"
	"github.com/openfab/boardquote/internal/migrations"
	"github.com/openfab/boardquote/internal/rates"
	"github.com/openfab/boardquote/internal/seed"
)

type server struct {
	db     *sql.DB
	holder *rates.Holder
	cal    *calendar.Calendar
	log    *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		logger.Fatal("failed to seed material catalog", zap.Error(err))
	}
	if stats.Inserts > 0 {
		logger.Info("seeded material catalog", zap.Int("inserts", stats.Inserts))
	}

	cal, err := calendar.LoadFile(cfg.CalendarPath, logger)
	if err != nil {
		logger.Fatal("failed to load production calendar", zap.Error(err))
	}

	holder, err := rates.NewHolder(cfg.RatesPath, database, logger)
	if err != nil {
		logger.Fatal("failed to load rate card", zap.Error(err))
	}
	stopWatch, err := holder.Watch()
	if err != nil {
		logger.Fatal("failed to watch rate card", zap.Error(err))
	}
	defer stopWatch()

	srv := &server{db: database, holder: holder, cal: cal, log: logger}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/quotes", s.handleCreateQuote)
	r.Get("/api/quotes", s.handleListQuotes)
	r.Post("/api/price", s.handlePrice)
	r.Post("/api/shipping", s.handleShipping)
	r.Post("/api/delivery-date", s.handleDeliveryDate)
	r.Get("/api/materials", s.handleListMaterials)
	r.Post("/api/materials", s.handleCreateMaterial)
	r.Put("/api/materials/{id}", s.handleUpdateMaterial)
	r.Post("/api/rates/reload", s.handleRatesReload)
	return r
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
