package repository

import (
	"errors"

	"github.com/taxepay/internal/models"

	"gorm.io/gorm"
)

// TaxServiceRepository tax service catalogue access interface
type TaxServiceRepository interface {
	Create(service *models.TaxService) error
	Update(service *models.TaxService) error
	GetByID(id uint) (*models.TaxService, error)
	ListActive() ([]models.TaxService, error)
}

// GormTaxServiceRepository GORM implementation
type GormTaxServiceRepository struct {
	db *gorm.DB
}

// NewTaxServiceRepository creates the tax service repository
func NewTaxServiceRepository(db *gorm.DB) *GormTaxServiceRepository {
	return &GormTaxServiceRepository{db: db}
}

// Create inserts a catalogue entry
func (r *GormTaxServiceRepository) Create(service *models.TaxService) error {
	return r.db.Create(service).Error
}

// Update persists a catalogue entry
func (r *GormTaxServiceRepository) Update(service *models.TaxService) error {
	return r.db.Save(service).Error
}

// GetByID fetches a catalogue entry by primary key
func (r *GormTaxServiceRepository) GetByID(id uint) (*models.TaxService, error) {
	var service models.TaxService
	if err := r.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// ListActive returns active catalogue entries ordered by name
func (r *GormTaxServiceRepository) ListActive() ([]models.TaxService, error) {
	var services []models.TaxService
	if err := r.db.Where("is_active = ?", true).Order("name asc").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
