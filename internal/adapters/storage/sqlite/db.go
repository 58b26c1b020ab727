// Package sqlite persiste el historial en un archivo local usando gorm.
package sqlite

import (
	"fmt"
	"time"

	"pet-health-analytics/internal/domain/health"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open abre (o crea) la base y migra los modelos. path puede ser ":memory:".
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite admite un solo escritor; además ":memory:" es por conexión
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&petModel{}, &recordModel{}, &metricModel{}, &alertModel{}, &goalModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate health schemas: %w", err)
	}
	return db, nil
}

type petModel struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Species       string
	Breed         string
	BirthDate     *time.Time
	Weight        float64
	ActivityLevel string
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

func (petModel) TableName() string { return "pets" }

type recordModel struct {
	ID          string `gorm:"primaryKey"`
	PetID       string `gorm:"uniqueIndex:idx_record_pet_date"`
	RecordDate  string `gorm:"uniqueIndex:idx_record_pet_date"` // YYYY-MM-DD
	Weight      *float64
	WaterIntake *float64
	FoodIntake  *float64
	Activity    *health.Activity    `gorm:"serializer:json"`
	Sleep       *health.Sleep       `gorm:"serializer:json"`
	Mood        *health.Mood        `gorm:"serializer:json"`
	Medications []health.Medication `gorm:"serializer:json"`
	Notes       string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (recordModel) TableName() string { return "health_records" }

type metricModel struct {
	ID         string `gorm:"primaryKey"`
	PetID      string `gorm:"index"`
	Type       string
	Value      float64
	Unit       string
	RecordedAt time.Time `gorm:"index"`
}

func (metricModel) TableName() string { return "health_metrics" }

type alertModel struct {
	ID              string `gorm:"primaryKey"`
	PetID           string `gorm:"index"`
	RecordID        string
	Type            string
	Severity        string
	Title           string
	Message         string
	Recommendations []string `gorm:"serializer:json"`
	IsRead          bool
	CreatedAt       time.Time `gorm:"autoCreateTime:false;index"`
}

func (alertModel) TableName() string { return "health_alerts" }

type goalModel struct {
	ID           string `gorm:"primaryKey"`
	PetID        string `gorm:"index"`
	Type         string
	Title        string
	TargetValue  float64
	Unit         string
	TargetDate   *time.Time
	CurrentValue float64
	Active       bool
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (goalModel) TableName() string { return "health_goals" }
