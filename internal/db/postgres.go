package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/envutil"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := envutil.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := envutil.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := envutil.GetEnv("POSTGRES_NAME", "farmops", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := MigrateModels(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	if err := EnsurePlacementIndexes(s.db); err != nil {
		s.log.Error("Placement index creation failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// MigrateModels runs AutoMigrate for every table this service owns. The
// test harness reuses it against sqlite.
func MigrateModels(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.Container{},
		&types.Tray{},
		&types.Panel{},
		&types.RFIDAssignment{},
		&types.Crop{},
		&types.TraySnapshot{},
		&types.PanelSnapshot{},

		&types.RecipeMaster{},
		&types.RecipeVersion{},
		&types.RecipeApplication{},
	)
}

// EnsurePlacementIndexes creates the partial unique indexes that make a
// slot hold at most one placed occupant per container. GORM tags cannot
// express the WHERE clause; the statement is valid on both Postgres and
// sqlite, so tests exercise the same constraint.
func EnsurePlacementIndexes(gdb *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_tray_slot
		   ON tray (container_id, slot_kind, slot_identifier, slot_number)
		   WHERE slot_kind IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_panel_slot
		   ON panel (container_id, slot_kind, slot_identifier, slot_number)
		   WHERE slot_kind IS NOT NULL`,
	}
	for _, stmt := range stmts {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure placement index: %w", err)
		}
	}
	return nil
}
