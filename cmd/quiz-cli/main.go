package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/bankio"
	"daily-quiz/internal/cli"
	"daily-quiz/internal/config"
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

	kv, err := storage.NewSQLite(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open store %s: %v\n", cfg.DBPath, err)
		os.Exit(1)
	}
	defer kv.Close()

	bankStore := bank.NewStore(kv)
	studentStore := student.NewStore(kv)
	ioService := bankio.NewService(bankStore)
	flow := session.NewFlow(bankStore, studentStore, cfg.QuestionCount)

	app := cli.NewApp(bankStore, studentStore, ioService, flow)
	if err := app.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
