package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"emailbuilder/models"
	"emailbuilder/utils"
)

// templateRow maps to the templates table. Styles are kept as serialized
// JSON text and are opaque to the store.
type templateRow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	Footer    *string   `gorm:"column:footer"`
	ImageURL  *string   `gorm:"column:imageUrl"`
	Styles    *string   `gorm:"column:styles"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (templateRow) TableName() string {
	return "templates"
}

// Option configures Open.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
}

// WithTracerProvider sends query spans to tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// Store is the SQLite-backed template store. It is safe for concurrent use;
// writes are serialized through a single connection.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open opens (creating if needed) the SQLite database at path and makes sure
// the templates table exists. An empty path opens a private in-memory
// database.
func Open(path string, logger *logrus.Logger, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
	}

	dsn := "file::memory:"
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.init(o); err != nil {
		_ = s.Close()
		return nil, err
	}
	logger.WithField("path", path).Info("Template store ready")
	return s, nil
}

func (s *Store) init(o options) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	// A single connection serializes writers and keeps an in-memory
	// database alive for the lifetime of the store.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	tracingOpts := []tracing.Option{tracing.WithoutMetrics()}
	if o.tracerProvider != nil {
		tracingOpts = append(tracingOpts, tracing.WithTracerProvider(o.tracerProvider))
	}
	if err := s.db.Use(tracing.NewPlugin(tracingOpts...)); err != nil {
		return fmt.Errorf("configure tracing: %w", err)
	}

	s.logger.Debug("creating table: templates")
	if err := s.db.AutoMigrate(&templateRow{}); err != nil {
		return fmt.Errorf("failed to migrate templates table: %w", err)
	}
	return nil
}

// Insert persists t and returns its new id. t is updated with the id and
// timestamps assigned by the store.
func (s *Store) Insert(ctx context.Context, t *models.Template) (uint, error) {
	row := templateRow{
		Title:    t.Title,
		Content:  t.Content,
		Footer:   t.Footer,
		ImageURL: t.ImageURL,
	}
	if t.Styles != nil {
		buf, err := json.Marshal(t.Styles)
		if err != nil {
			return 0, utils.NewStorageError("serialize styles", err)
		}
		styles := string(buf)
		row.Styles = &styles
	}

	if result := s.db.WithContext(ctx).Create(&row); result.Error != nil {
		return 0, utils.NewStorageError("insert template", result.Error)
	}

	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	t.UpdatedAt = row.UpdatedAt
	return row.ID, nil
}

// ListAll returns every template, most recently created first.
func (s *Store) ListAll(ctx context.Context) ([]models.Template, error) {
	var rows []templateRow
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, utils.NewStorageError("list templates", result.Error)
	}

	templates := make([]models.Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, s.fromRow(row))
	}
	return templates, nil
}

func (s *Store) fromRow(row templateRow) models.Template {
	t := models.Template{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Footer:    row.Footer,
		ImageURL:  row.ImageURL,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Styles != nil && *row.Styles != "" && *row.Styles != "null" {
		var styles models.TemplateStyles
		if err := json.Unmarshal([]byte(*row.Styles), &styles); err != nil {
			s.logger.WithFields(logrus.Fields{
				"template_id": row.ID,
				"error":       err.Error(),
			}).Warn("Ignoring unreadable styles column")
		} else {
			t.Styles = &styles
		}
	}
	return t
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return sqlDB.Close()
}
