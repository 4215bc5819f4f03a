// Package alertrepo stores alert rules in SQLite for the dev alerts service.
package alertrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
)

// ErrRuleNotFound is returned when a delete matches no rule.
var ErrRuleNotFound = errors.New("alert rule not found")

// ruleRecord is the table row. RowID preserves insertion order; PublicID is
// the identifier exposed on the wire.
type ruleRecord struct {
	RowID            uint   `gorm:"primaryKey;autoIncrement"`
	PublicID         string `gorm:"uniqueIndex;size:36;not null"`
	CityName         string `gorm:"index;not null"`
	AlertName        string `gorm:"not null"`
	Email            string `gorm:"not null"`
	Temperature      float64
	Humidity         *float64
	WindSpeed        *float64
	CloudCoverage    *float64
	WeatherCondition string
	CreatedAt        time.Time
}

func (ruleRecord) TableName() string {
	return "alert_rules"
}

func (r ruleRecord) toRule() alert.Rule {
	return alert.Rule{
		ID:               r.PublicID,
		AlertName:        r.AlertName,
		Email:            r.Email,
		CityName:         r.CityName,
		Temperature:      r.Temperature,
		Humidity:         r.Humidity,
		WindSpeed:        r.WindSpeed,
		CloudCoverage:    r.CloudCoverage,
		WeatherCondition: alert.Condition(r.WeatherCondition),
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open alerts database: %w", err)
	}
	return db, nil
}

// Repository reads and writes alert rules.
type Repository struct {
	db *gorm.DB
}

// New migrates the schema and returns a repository over db.
func New(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&ruleRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate alert tables: %w", err)
	}
	return &Repository{db: db}, nil
}

// List returns the rules of city in insertion order.
func (r *Repository) List(ctx context.Context, city string) ([]alert.Rule, error) {
	var records []ruleRecord
	if err := r.db.WithContext(ctx).Where("city_name = ?", city).Order("row_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list alert rules for %s: %w", city, err)
	}

	rules := make([]alert.Rule, 0, len(records))
	for _, rec := range records {
		rules = append(rules, rec.toRule())
	}
	return rules, nil
}

// Create stores draft under a new UUID.
func (r *Repository) Create(ctx context.Context, draft alert.Draft) (alert.Rule, error) {
	rec := ruleRecord{
		PublicID:         uuid.NewString(),
		CityName:         draft.CityName,
		AlertName:        draft.AlertName,
		Email:            draft.Email,
		Temperature:      draft.Temperature,
		Humidity:         draft.Humidity,
		WindSpeed:        draft.WindSpeed,
		CloudCoverage:    draft.CloudCoverage,
		WeatherCondition: string(draft.WeatherCondition),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return alert.Rule{}, fmt.Errorf("failed to create alert rule: %w", err)
	}
	return rec.toRule(), nil
}

// Delete removes rule id from city. Returns ErrRuleNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, city, id string) error {
	result := r.db.WithContext(ctx).Where("city_name = ? AND public_id = ?", city, id).Delete(&ruleRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert rule %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
