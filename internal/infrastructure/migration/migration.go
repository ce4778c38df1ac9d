// Package migration handles database schema migrations. Development uses
// GORM AutoMigrate for fast iteration; test and production run versioned
// SQL scripts through golang-migrate.
package migration

import (
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"sokofiti/internal/shared/logger"
)

// Manager runs the migration strategy chosen for the environment.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy based on the runtime environment.
func NewManager(environment string, log logger.Interface) *Manager {
	var strategy Strategy

	switch strings.ToLower(environment) {
	case "test", "production":
		scriptsPath, _ := filepath.Abs("./internal/infrastructure/migration/scripts")
		strategy = NewGolangMigrateStrategy(scriptsPath, log)
	default:
		strategy = NewGormAutoMigrateStrategy(log)
	}

	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration"),
	}
}

// NewManagerWithStrategy creates a manager with an explicit strategy.
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration"),
	}
}

// Migrate executes the configured migration strategy.
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}

	m.logger.Infow("database migration completed", "strategy", m.strategy.Name())
	return nil
}
