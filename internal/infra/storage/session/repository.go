package session

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value      T
	lastAccess time.Time
}

// Repository in-memory хранилище сессий с истечением по неактивности
// Каждое чтение продлевает жизнь сессии на ttl
type Repository[T any] struct {
	mu    sync.RWMutex
	items map[string]*entry[T]

	ttl          time.Duration
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewRepository создает новый экземпляр хранилища
func NewRepository[T any](ttl time.Duration, timeProvider TimeProvider, metrics Metrics, logger Logger) *Repository[T] {
	return &Repository[T]{
		items:        make(map[string]*entry[T]),
		ttl:          ttl,
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
	}
}

// Save сохраняет (или заменяет) сессию
func (r *Repository[T]) Save(_ context.Context, id string, value T) error {
	if id == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	r.items[id] = &entry[T]{value: value, lastAccess: r.timeProvider.Now()}
	n := len(r.items)
	r.mu.Unlock()

	r.report(n)
	return nil
}

// Get возвращает сессию и продлевает ее жизнь
func (r *Repository[T]) Get(_ context.Context, id string) (T, error) {
	var zero T
	now := r.timeProvider.Now()

	r.mu.Lock()
	e, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return zero, ErrSessionNotFound
	}
	if r.expired(e, now) {
		delete(r.items, id)
		n := len(r.items)
		r.mu.Unlock()
		r.report(n)
		return zero, ErrSessionNotFound
	}
	e.lastAccess = now
	r.mu.Unlock()

	return e.value, nil
}

// Sweep удаляет истекшие сессии, возвращает число удаленных
func (r *Repository[T]) Sweep() int {
	now := r.timeProvider.Now()

	r.mu.Lock()
	removed := 0
	for id, e := range r.items {
		if r.expired(e, now) {
			delete(r.items, id)
			removed++
		}
	}
	n := len(r.items)
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("Sessions: evicted %d expired, %d active", removed, n)
	}
	r.report(n)
	return removed
}

// Run периодически вызывает Sweep до отмены ctx
func (r *Repository[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Repository[T]) expired(e *entry[T], now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastAccess) > r.ttl
}

func (r *Repository[T]) report(n int) {
	if r.metrics != nil {
		r.metrics.SetActiveSessions(n)
	}
}
