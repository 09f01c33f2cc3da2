package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/repassafesta/escrow-service/internal/app/background"
	"github.com/repassafesta/escrow-service/internal/app/setup"
	"github.com/repassafesta/escrow-service/internal/delivery/http/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	defer deps.Notifier.Close()

	useCases := setup.InitializeUseCases(deps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tasks := background.NewBackgroundTasks(useCases.TransactionUsecase, useCases.OfferUsecase)
	tasks.StartAll(ctx)

	router := handlers.NewRouter(
		handlers.NewOfferHandler(useCases.OfferUsecase),
		handlers.NewTransactionHandler(useCases.TransactionUsecase),
		handlers.NewDisputeHandler(useCases.DisputeUsecase),
		handlers.NewMessageHandler(useCases.MessageUsecase),
		handlers.NewWebhookHandler(useCases.TransactionUsecase),
	)

	addr := fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port)
	slog.Info("escrow service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
