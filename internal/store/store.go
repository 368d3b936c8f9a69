// Package store persists raw designer and legacy templates.
package store

import (
	"badge-designer/internal/convert"
	"badge-designer/internal/metrics"
	"badge-designer/internal/models"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	FormatDesigner = "designer"
	FormatLegacy   = "legacy"
)

var (
	ErrNotFound    = errors.New("template not found")
	ErrInvalidJSON = errors.New("template is not a JSON object")
)

// Record is one stored template. Body holds the JSON exactly as saved.
type Record struct {
	ID        uint `gorm:"primaryKey"`
	EventID   int
	Name      string
	Status    string
	Format    string
	Version   string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string { return "templates" }

type Options struct {
	// DSN selects Postgres when set; otherwise SQLitePath is used.
	DSN        string
	SQLitePath string
	CacheTTL   time.Duration
	Metrics    *metrics.Metrics
}

type Store struct {
	db      *gorm.DB
	cache   *gocache.Cache
	metrics *metrics.Metrics
}

// Open connects to the database and applies pending schema migrations.
func Open(opts Options) (*Store, error) {
	dialect := "sqlite"
	dialector := sqlite.Open(opts.SQLitePath)
	if opts.DSN != "" {
		dialect = "postgres"
		dialector = postgres.Open(opts.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := runMigrations(sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("sql migrations failed: %w", err)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	slog.Info("template store ready", "dialect", dialect)
	return &Store{
		db:      db,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: opts.Metrics,
	}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// header holds the fields indexed next to the body. Version is read from
// template_json first, then from the top level for bare working templates.
// Fields of the wrong type are indexed as absent.
type header struct {
	EventID      int    `json:"event_id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Version      string `json:"version"`
	TemplateJSON *struct {
		Version string `json:"version"`
	} `json:"template_json"`
}

// Save stores raw as a new record. Either template format is accepted.
func (s *Store) Save(ctx context.Context, raw []byte) (rec Record, err error) {
	defer func() { s.metrics.ObserveStore("save", err) }()

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Record{}, ErrInvalidJSON
	}
	var h header
	if err := models.DecodeLenient(raw, &h); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	rec = Record{
		EventID: h.EventID,
		Name:    h.Name,
		Status:  h.Status,
		Format:  FormatDesigner,
		Version: h.Version,
		Body:    string(raw),
	}
	if rec.Status == "" {
		rec.Status = "draft"
	}
	if convert.IsLegacy(raw) {
		rec.Format = FormatLegacy
		rec.Version = ""
	} else if h.TemplateJSON != nil && h.TemplateJSON.Version != "" {
		rec.Version = h.TemplateJSON.Version
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Record{}, fmt.Errorf("save template: %w", err)
	}
	s.cache.Set(cacheKey(rec.ID), rec, gocache.DefaultExpiration)
	return rec, nil
}

// Load returns the record with id, reading through the in-memory cache.
func (s *Store) Load(ctx context.Context, id uint) (rec Record, err error) {
	defer func() { s.metrics.ObserveStore("load", err) }()

	if cached, found := s.cache.Get(cacheKey(id)); found {
		return cached.(Record), nil
	}

	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("load template %d: %w", id, err)
	}
	s.cache.Set(cacheKey(id), rec, gocache.DefaultExpiration)
	return rec, nil
}

// ListByEvent returns the event's templates, newest first, without bodies.
func (s *Store) ListByEvent(ctx context.Context, eventID int) (recs []Record, err error) {
	defer func() { s.metrics.ObserveStore("list", err) }()

	err = s.db.WithContext(ctx).
		Select("id", "event_id", "name", "status", "format", "version", "created_at", "updated_at").
		Where("event_id = ?", eventID).
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return recs, nil
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id uint) (err error) {
	defer func() { s.metrics.ObserveStore("delete", err) }()

	res := s.db.WithContext(ctx).Delete(&Record{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete template %d: %w", id, res.Error)
	}
	s.cache.Delete(cacheKey(id))
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func cacheKey(id uint) string {
	return "tpl:" + strconv.FormatUint(uint64(id), 10)
}
