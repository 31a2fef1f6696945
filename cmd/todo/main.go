package main

import (
	"context"
	"fmt"
	"os"

	"todo_app/internal/logger"
	"todo_app/internal/todocli"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger.InitWriter(os.Stderr, level, false)

	if err := todocli.New().Command().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
