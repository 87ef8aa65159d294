package charger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type chargerRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &chargerRepository{db: db}
}

type chargerModel struct {
	ID            string    `gorm:"column:id;primaryKey;size:36"`
	OwnerID       string    `gorm:"column:owner_id;index;not null"`
	Title         string    `gorm:"column:title;not null"`
	Description   string    `gorm:"column:description"`
	ChargerType   string    `gorm:"column:charger_type;index"`
	ConnectorType string    `gorm:"column:connector_type;index"`
	PowerKW       float64   `gorm:"column:power_kw"`
	HourlyRate    float64   `gorm:"column:hourly_rate;not null"`
	Windows       Windows   `gorm:"column:availability_windows;serializer:json"`
	Status        string    `gorm:"column:status;index;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (chargerModel) TableName() string { return "chargers" }

// AutoMigrate creates or updates the chargers table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&chargerModel{})
}

func toDomainCharger(m chargerModel) *Charger {
	windows := m.Windows
	if windows == nil {
		windows = Windows{}
	}
	return &Charger{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		Description:   m.Description,
		ChargerType:   Type(m.ChargerType),
		ConnectorType: Connector(m.ConnectorType),
		PowerKW:       m.PowerKW,
		HourlyRate:    m.HourlyRate,
		Windows:       windows,
		Status:        Status(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toChargerModel(c *Charger) chargerModel {
	return chargerModel{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		Title:         c.Title,
		Description:   c.Description,
		ChargerType:   string(c.ChargerType),
		ConnectorType: string(c.ConnectorType),
		PowerKW:       c.PowerKW,
		HourlyRate:    c.HourlyRate,
		Windows:       c.Windows,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *chargerRepository) Create(ctx context.Context, c *Charger) error {
	m := toChargerModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create charger: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *chargerRepository) GetByID(ctx context.Context, id string) (*Charger, error) {
	var m chargerModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get charger: %w", err)
	}
	return toDomainCharger(m), nil
}

func (r *chargerRepository) UpdateAvailability(ctx context.Context, id string, windows Windows) error {
	res := r.db.WithContext(ctx).
		Model(&chargerModel{ID: id}).
		Select("availability_windows", "updated_at").
		Updates(chargerModel{Windows: windows, UpdatedAt: time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update availability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chargerRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res := r.db.WithContext(ctx).
		Model(&chargerModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update charger status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBySpecs lists approved chargers matching the filter.
func (r *chargerRepository) FindBySpecs(ctx context.Context, f SpecFilter) ([]Charger, error) {
	q := r.db.WithContext(ctx).
		Model(&chargerModel{}).
		Where("status = ?", string(StatusApproved))
	if f.ChargerType != "" {
		q = q.Where("charger_type = ?", string(f.ChargerType))
	}
	if f.ConnectorType != "" {
		q = q.Where("connector_type = ?", string(f.ConnectorType))
	}

	var rows []chargerModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find chargers by specs: %w", err)
	}
	return toDomainChargers(rows), nil
}

func (r *chargerRepository) ListByOwner(ctx context.Context, ownerID string) ([]Charger, error) {
	var rows []chargerModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list chargers by owner: %w", err)
	}
	return toDomainChargers(rows), nil
}

func toDomainChargers(rows []chargerModel) []Charger {
	out := make([]Charger, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCharger(m))
	}
	return out
}
