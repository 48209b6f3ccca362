package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	sessionRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/session"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
)

// Manager создает и находит сессии
type Manager struct {
	repo   Repository
	deps   Deps
	opts   Options
	logger Logger
}

// NewManager создает менеджер сессий
func NewManager(repo Repository, deps Deps, opts Options) *Manager {
	return &Manager{
		repo:   repo,
		deps:   deps,
		opts:   opts,
		logger: deps.Logger,
	}
}

// Open создает сессию, восстанавливает конфигурацию из URL и выполняет первый запрос
func (m *Manager) Open(ctx context.Context, subScenarioID int64, values url.Values, snapshot *availability.Snapshot) (*Session, error) {
	if subScenarioID <= 0 {
		return nil, ErrInvalidSubScenario
	}

	id := uuid.NewString()
	s := New(id, subScenarioID, m.deps, m.opts)

	if err := s.Mount(ctx, values, snapshot); err != nil {
		m.logger.Warn("Session: failed to mount sub_scenario=%d: %v", subScenarioID, err)
		return nil, err
	}

	if err := m.repo.Save(ctx, id, s); err != nil {
		m.logger.Error("Session: failed to save session %s: %v", id, err)
		return nil, fmt.Errorf("session: save: %w", err)
	}

	m.logger.Info("Session: opened %s for sub_scenario=%d", id, subScenarioID)
	return s, nil
}

// Get находит активную сессию
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id", ErrSessionNotFound)
	}

	s, err := m.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: get: %w", err)
	}
	return s, nil
}
