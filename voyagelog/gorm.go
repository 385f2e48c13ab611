package voyagelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Step is one row of the step log.
type Step struct {
	ID        uint   `gorm:"primaryKey"`
	Session   string `gorm:"size:36;index:idx_session_hour"`
	Hour      int    `gorm:"index:idx_session_hour"`
	Source    string `gorm:"size:32"`
	Wind      float64
	Fallback  bool
	Ships     datatypes.JSON
	CreatedAt time.Time
}

type Gorm struct {
	db *gorm.DB
}

var gormConfig = &gorm.Config{
	SkipDefaultTransaction: true,
	Logger:                 logger.Default.LogMode(logger.Silent),
}

// OpenSqlite opens a SQLite step log. An empty path keeps it in memory.
func OpenSqlite(path string) (*Gorm, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite step log: %w", err)
	}
	if path == "" {
		// every connection to :memory: is a new database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return NewGorm(db)
}

func OpenPostgres(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening postgres step log: %w", err)
	}
	return NewGorm(db)
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&Step{}); err != nil {
		return nil, fmt.Errorf("migrating step log: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Record(ctx context.Context, e Entry) error {
	ships, err := json.Marshal(e.Ships)
	if err != nil {
		return fmt.Errorf("encoding ships: %w", err)
	}
	row := Step{
		Session:   e.Session,
		Hour:      e.Hour,
		Wind:      e.Wind,
		Source:    e.Source,
		Fallback:  e.Fallback,
		Ships:     datatypes.JSON(ships),
		CreatedAt: e.At,
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("inserting step: %w", err)
	}
	return nil
}

func (g *Gorm) History(ctx context.Context, session string, limit int) ([]Entry, error) {
	var rows []Step
	q := g.db.WithContext(ctx).Where("session = ?", session).Order("hour DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		e := Entry{
			Session:  row.Session,
			Hour:     row.Hour,
			Wind:     row.Wind,
			Source:   row.Source,
			Fallback: row.Fallback,
			At:       row.CreatedAt,
		}
		if err := json.Unmarshal(row.Ships, &e.Ships); err != nil {
			return nil, fmt.Errorf("decoding ships of step %d: %w", row.ID, err)
		}
		entries[len(rows)-1-i] = e
	}
	return entries, nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
