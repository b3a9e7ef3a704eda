package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/62String/devicerent-sub000/internal/auth"
	"github.com/62String/devicerent-sub000/internal/events"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

// serviceManager wires the services and owns their lifecycle.
type serviceManager struct {
	repo      repositories.Repository
	tokens    *auth.TokenIssuer
	publisher *events.RentalPublisher
	logger    *slog.Logger
	validator *validator.Validator

	accountService AccountService
	deviceService  DeviceService
	rentalService  RentalService
	historyService HistoryService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(
	repo repositories.Repository,
	tokens *auth.TokenIssuer,
	publisher *events.RentalPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.accountService = NewAccountService(sm.repo, sm.tokens, sm.logger, sm.validator)
	sm.deviceService = NewDeviceService(sm.repo, sm.logger, sm.validator)
	sm.rentalService = NewRentalService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.historyService = NewHistoryService(sm.repo, sm.logger, sm.validator)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("services initialized")
	return nil
}

func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.accountService
}

func (sm *serviceManager) Device() DeviceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.deviceService
}

func (sm *serviceManager) Rental() RentalService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.rentalService
}

func (sm *serviceManager) History() HistoryService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.historyService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.shutdown {
		return fmt.Errorf("service manager not available")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("close event publisher", "error", err)
	}

	sm.logger.Info("services shut down")
	return nil
}
