// Command seed creates a merchant and prints its credentials. The API secret
// is shown here and never again.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/adapters/postgres"
	"github.com/kevin07696/payment-gateway/internal/config"
	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/pkg/identifier"
	"github.com/kevin07696/payment-gateway/pkg/observability"
)

func main() {
	name := flag.String("name", "Test Merchant", "merchant display name")
	email := flag.String("email", "merchant@example.com", "merchant email, unique")
	webhookURL := flag.String("webhook-url", "", "optional webhook endpoint")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, 2, 1)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	apiKey, err := identifier.NewAPIKey()
	if err != nil {
		logger.Fatal("mint api key failed", zap.Error(err))
	}
	apiSecret, err := identifier.NewAPISecret()
	if err != nil {
		logger.Fatal("mint api secret failed", zap.Error(err))
	}
	webhookSecret, err := identifier.NewWebhookSecret()
	if err != nil {
		logger.Fatal("mint webhook secret failed", zap.Error(err))
	}

	m := &domain.Merchant{
		ID:            uuid.New(),
		Name:          *name,
		Email:         *email,
		APIKey:        apiKey,
		APISecret:     apiSecret,
		WebhookURL:    *webhookURL,
		WebhookSecret: webhookSecret,
	}
	if err := store.CreateMerchant(ctx, m); err != nil {
		logger.Fatal("create merchant failed", zap.Error(err))
	}

	fmt.Printf("merchant created\n")
	fmt.Printf("  id:             %s\n", m.ID)
	fmt.Printf("  name:           %s\n", m.Name)
	fmt.Printf("  email:          %s\n", m.Email)
	fmt.Printf("  api key:        %s\n", m.APIKey)
	fmt.Printf("  api secret:     %s\n", m.APISecret)
	fmt.Printf("  webhook secret: %s\n", m.WebhookSecret)
	if m.WebhookURL != "" {
		fmt.Printf("  webhook url:    %s\n", m.WebhookURL)
	}
}
