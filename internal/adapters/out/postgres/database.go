package postgres

import (
	"fmt"
	"time"

	"tracking/internal/adapters/out/postgres/packagerepo"

	// registers the "postgres" database/sql driver used when DriverLibPQ is selected
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPGX   = "pgx"
	DriverLibPQ = "postgres"
)

// Settings describes a PostgreSQL connection.
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Driver   string
}

func (s Settings) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

// Open connects through GORM using the configured database/sql driver.
func Open(s Settings) (*gorm.DB, error) {
	driver := s.Driver
	if driver == "" {
		driver = DriverPGX
	}
	if driver != DriverPGX && driver != DriverLibPQ {
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	dialector := gormpostgres.New(gormpostgres.Config{
		DriverName: driver,
		DSN:        s.DSN(),
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to database %s via %s", s.Name, driver)
	}

	return db, nil
}

// Migrate creates or updates the packages and tracking_events tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&packagerepo.PackageDTO{}, &packagerepo.TrackingEventDTO{}); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.Close()
}
