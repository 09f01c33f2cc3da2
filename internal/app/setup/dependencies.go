package setup

import (
	"fmt"

	"github.com/repassafesta/escrow-service/internal/codegen"
	"github.com/repassafesta/escrow-service/internal/config"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/fraud"
	publisher "github.com/repassafesta/escrow-service/internal/infrastructure/kafka"
	"github.com/repassafesta/escrow-service/internal/infrastructure/metrics"
	"github.com/repassafesta/escrow-service/internal/infrastructure/migrate"
	"github.com/repassafesta/escrow-service/internal/infrastructure/payment"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config        *config.EscrowConfig
	DB            *gorm.DB
	Notifier      *publisher.KafkaPublisher
	PaymentClient domain.PaymentClient
	FraudClient   domain.FraudClient
	Codes         *codegen.Allocator
	Metrics       *metrics.EscrowMetrics
	Repositories  *Repositories
}

type Repositories struct {
	ListingRepo     domain.ListingRepository
	OfferRepo       domain.OfferRepository
	TransactionRepo domain.TransactionRepository
	PaymentRepo     domain.PaymentRepository
	DisputeRepo     domain.DisputeRepository
	LedgerRepo      domain.LedgerRepository
	MessageRepo     domain.MessageRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.EscrowDB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	notifier, err := publisher.NewKafkaPublisher(publisher.KafkaConfig{
		Brokers:    []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Topic:      cfg.KafkaService.Topic,
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("notification publisher: %w", err)
	}

	codes, err := codegen.NewAllocator()
	if err != nil {
		return nil, fmt.Errorf("code allocator: %w", err)
	}

	return &Dependencies{
		Config:        cfg,
		DB:            db,
		Notifier:      notifier,
		PaymentClient: payment.NewHTTPPaymentClient(cfg.PaymentService.Address, cfg.PaymentService.Timeout),
		FraudClient:   fraud.NewHTTPFraudClient(cfg.FraudService.Address, cfg.FraudService.Timeout),
		Codes:         codes,
		Metrics:       metrics.NewEscrowMetrics(),
		Repositories: &Repositories{
			ListingRepo:     repository.NewDefaultListingRepository(db),
			OfferRepo:       repository.NewDefaultOfferRepository(db),
			TransactionRepo: repository.NewDefaultTransactionRepository(db),
			PaymentRepo:     repository.NewDefaultPaymentRepository(db),
			DisputeRepo:     repository.NewDefaultDisputeRepository(db),
			LedgerRepo:      repository.NewDefaultLedgerRepository(db),
			MessageRepo:     repository.NewDefaultMessageRepository(db),
		},
	}, nil
}
