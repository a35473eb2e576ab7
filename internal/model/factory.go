package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agcbo/internal/config"
	"agcbo/internal/entity/db"
	"agcbo/internal/model/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// Store bundles the specialised repository with the generic tables.
type Store struct {
	Repository
	Tables *Tables
	DB     *gorm.DB
}

// NewStore wraps an open, migrated database.
func NewStore(gdb *gorm.DB) *Store {
	return &Store{
		Repository: sql.NewGormRepository(gdb),
		Tables:     NewTables(gdb),
		DB:         gdb,
	}
}

// RepositoryFactory creates the store for the configured database engine.
type RepositoryFactory struct{}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

// InitRepository opens and migrates the configured database.
func InitRepository(cfg *config.Config) (*Store, error) {
	return NewRepositoryFactory().CreateRepository(cfg)
}

// CreateRepository dispatches on the configured engine.
func (f *RepositoryFactory) CreateRepository(cfg *config.Config) (*Store, error) {
	switch cfg.DBType {
	case DBTypeMySQL:
		return f.createMySQLRepository(cfg)
	case DBTypeSQLite, "":
		return OpenSQLite(cfg.DBPath)
	case DBTypePostgres:
		return f.createPostgresRepository(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

func (f *RepositoryFactory) createMySQLRepository(cfg *config.Config) (*Store, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBAddr, port, cfg.DBName)
	}

	gdb, err := openGormDB(mysql.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return NewStore(gdb), nil
}

// OpenSQLite opens a SQLite file (or memory DSN) and migrates it. SQLite
// serialises writers, so the pool holds a single connection.
func OpenSQLite(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "data/agcbo.db"
	}

	// SQLite creates the file on connect but not its parent directories.
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	gdb, err := openGormDB(sqlite.Open(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return NewStore(gdb), nil
}

func (f *RepositoryFactory) createPostgresRepository(cfg *config.Config) (*Store, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, port)
	}

	gdb, err := openGormDB(postgres.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return NewStore(gdb), nil
}

func openGormDB(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

// Migrate creates or updates every table.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&db.Constituency{},
		&db.Ward{},
		&db.Account{},
		&db.MemberProfile{},
		&db.Certificate{},
		&db.County{},
		&db.Ministry{},
		&db.ProjectCategory{},
		&db.Project{},
		&db.ProjectMember{},
		&db.ProjectReport{},
		&db.FundingSource{},
		&db.Sponsor{},
		&db.DonationTier{},
		&db.Donation{},
		&db.Event{},
		&db.EventRegistration{},
		&db.Announcement{},
		&db.GalleryItem{},
		&db.SportProgram{},
		&db.Team{},
		&db.TeamMember{},
		&db.Match{},
		&db.TrainingSchedule{},
		&db.Badge{},
		&db.MemberBadge{},
		&db.PointsTransaction{},
		&db.Leaderboard{},
		&db.Report{},
		&db.ContactMessage{},
		&db.AuditLog{},
		&db.SiteSettings{},
		&db.AboutPage{},
		&db.Official{},
		&db.YouthJob{},
	)
}
