package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/bankio"
	"daily-quiz/internal/config"
	"daily-quiz/internal/httpapi"
	"daily-quiz/internal/logger"
	"daily-quiz/internal/session"
	"daily-quiz/internal/storage"
	"daily-quiz/internal/student"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "path to the sqlite store")
	flag.Parse()

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	kv, err := storage.NewSQLite(*dbPath)
	if err != nil {
		zl.Fatal("open store", zap.String("path", *dbPath), zap.Error(err))
	}
	defer kv.Close()

	bankStore := bank.NewStore(kv)
	studentStore := student.NewStore(kv)
	ioService := bankio.NewService(bankStore)
	flow := session.NewFlow(bankStore, studentStore, cfg.QuestionCount)

	api := httpapi.NewAPI(bankStore, studentStore, ioService, flow, zl)

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(api, cfg.CORSOrigin),
		ReadHeaderTimeout: 5 * time.Second,
	}

	zl.Info("quiz-service listening",
		zap.String("addr", *addr),
		zap.String("db", *dbPath),
		zap.Int("question_count", cfg.QuestionCount),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server failed", zap.Error(err))
	}
}
