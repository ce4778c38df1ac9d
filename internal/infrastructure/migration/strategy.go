package migration

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"sokofiti/internal/infrastructure/persistence/models"
	"sokofiti/internal/shared/logger"
)

// Strategy is a way to bring the schema up to date.
type Strategy interface {
	Migrate(db *gorm.DB) error
	Name() string
}

// GolangMigrateStrategy runs versioned SQL scripts with golang-migrate.
type GolangMigrateStrategy struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGolangMigrateStrategy creates a new golang-migrate strategy.
func NewGolangMigrateStrategy(scriptsPath string, log logger.Interface) Strategy {
	return &GolangMigrateStrategy{
		scriptsPath: scriptsPath,
		logger:      log.Named("migration.golang-migrate"),
	}
}

func (s *GolangMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("running sql migrations", "scripts_path", s.scriptsPath)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m, err := s.createMigrateInstance(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	s.logger.Infow("sql migrations applied",
		"from_version", currentVersion, "to_version", finalVersion)
	return nil
}

func (s *GolangMigrateStrategy) Name() string { return "golang_migrate" }

// MigrateDown rolls back the given number of migrations.
func (s *GolangMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m, err := s.createMigrateInstance(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	s.logger.Infow("rolling back migrations", "steps", steps)

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// GetVersion returns the current schema version, 0 when no migration has run.
func (s *GolangMigrateStrategy) GetVersion(db *gorm.DB) (uint, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m, err := s.createMigrateInstance(sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database is in dirty state at version %d", version)
	}
	return version, nil
}

func (s *GolangMigrateStrategy) createMigrateInstance(sqlDB *sql.DB) (*migrate.Migrate, error) {
	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql driver: %w", err)
	}

	sourceURL := fmt.Sprintf("file://%s", s.scriptsPath)
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// GormAutoMigrateStrategy derives the schema from the model structs.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new AutoMigrate strategy.
func NewGormAutoMigrateStrategy(log logger.Interface) Strategy {
	return &GormAutoMigrateStrategy{logger: log.Named("migration.gorm")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("running gorm auto-migration")

	if err := db.AutoMigrate(
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.CreditHistoryModel{},
		&models.MpesaTransactionModel{},
		&models.PaymentTransactionModel{},
	); err != nil {
		return err
	}
	return s.ensureActiveSubscriptionIndex(db)
}

// ensureActiveSubscriptionIndex backs the one-active-subscription-per-user
// rule with a unique index, so racing activations cannot both commit. The
// SQL script path creates the same index in 000002.
func (s *GormAutoMigrateStrategy) ensureActiveSubscriptionIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex(&models.SubscriptionModel{}, "uq_user_active") {
		return nil
	}
	if db.Dialector.Name() == "mysql" {
		// MySQL has no partial indexes; a virtual column that is NULL
		// for non-active rows gives the same constraint.
		if err := db.Exec("ALTER TABLE user_subscriptions ADD COLUMN active_user_id INT UNSIGNED GENERATED ALWAYS AS (IF(status = 'active', user_id, NULL)) VIRTUAL").Error; err != nil {
			return err
		}
		return db.Exec("CREATE UNIQUE INDEX uq_user_active ON user_subscriptions (active_user_id)").Error
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS uq_user_active ON user_subscriptions (user_id) WHERE status = 'active'").Error
}

func (s *GormAutoMigrateStrategy) Name() string { return "gorm_auto_migrate" }
