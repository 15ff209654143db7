// Package hotreload re-applies configuration when the config file changes.
package hotreload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloadable is a component that can pick up a changed config file.
type Reloadable interface {
	Reload(ctx context.Context) error
	Name() string
}

// Manager watches one file and reloads every registered component after the
// file settles for the debounce period.
type Manager struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger

	mu          sync.RWMutex
	reloadables map[string]Reloadable
	watcher     *fsnotify.Watcher
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewManager creates a manager for path. Nothing is watched until Start.
func NewManager(path string, debounce time.Duration, logger *zap.Logger) *Manager {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		path:        path,
		debounce:    debounce,
		logger:      logger,
		reloadables: make(map[string]Reloadable),
	}
}

// RegisterReloadable adds a component; names must be unique.
func (m *Manager) RegisterReloadable(r Reloadable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reloadables[r.Name()]; exists {
		return fmt.Errorf("reloadable %s already registered", r.Name())
	}
	m.reloadables[r.Name()] = r
	m.logger.Debug("Registered reloadable component", zap.String("name", r.Name()))
	return nil
}

// Start begins watching. It returns an error if already started.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return errors.New("hot reload already running")
	}

	w, target, err := watchFile(m.path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	m.watcher = w
	m.cancel = cancel

	m.wg.Add(1)
	go m.loop(ctx, w, target)

	m.logger.Info("Hot reload started", zap.String("path", target))
	return nil
}

// Stop stops watching and waits for an in-flight reload to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	w, cancel := m.watcher, m.cancel
	m.watcher, m.cancel = nil, nil
	m.mu.Unlock()

	if w == nil {
		return
	}
	cancel()
	m.wg.Wait()
	if err := w.Close(); err != nil {
		m.logger.Error("Failed to close file watcher", zap.Error(err))
	}
	m.logger.Info("Hot reload stopped")
}

// IsRunning reports whether the file is being watched.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.watcher != nil
}

func (m *Manager) loop(ctx context.Context, w *fsnotify.Watcher, target string) {
	defer m.wg.Done()

	timer := time.NewTimer(m.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !relevant(event, target) {
				continue
			}
			m.logger.Debug("Config file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(m.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.logger.Error("Watcher error", zap.Error(err))

		case <-timer.C:
			m.reloadAll(ctx)
		}
	}
}

func (m *Manager) reloadAll(ctx context.Context) {
	m.mu.RLock()
	reloadables := make([]Reloadable, 0, len(m.reloadables))
	for _, r := range m.reloadables {
		reloadables = append(reloadables, r)
	}
	m.mu.RUnlock()

	var errs []error
	for _, r := range reloadables {
		if err := r.Reload(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to reload %s: %w", r.Name(), err))
			continue
		}
		m.logger.Info("Reloaded component", zap.String("name", r.Name()))
	}

	if err := errors.Join(errs...); err != nil {
		m.logger.Error("Hot reload completed with errors", zap.Error(err))
	}
}
