// Command seed fills a running HOA backend with sample data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/seed"
	Logger "github.com/zYagamiBR/hoa-helper/pkg/logger"
)

const defaultAPIURL = "http://localhost:8080/api"

func main() {
	envErr := godotenv.Load()

	log, err := Logger.New(Logger.Options{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "console"),
		ServiceName: "hoa-seed",
	})
	if err != nil {
		fmt.Printf("Failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	Logger.Use(log)
	defer Logger.Sync()
	if envErr != nil {
		Logger.Debug("no .env file loaded: %v", envErr)
	}

	apiURL := getEnv("HOA_API_URL", defaultAPIURL)
	client := apiclient.New(apiURL, apiclient.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	Logger.Info("populating %s with sample data", apiURL)
	counts, err := seed.NewLoader(client, log, time.Now().UnixNano(), time.Now()).Run(ctx)
	for _, c := range counts {
		log.Info("created", zap.String("collection", c.Collection), zap.Int("records", c.Created))
	}
	if err != nil {
		Logger.Error("sample data population failed: %v", err)
		os.Exit(1)
	}
	Logger.Info("sample data population completed")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
