package repository

import (
	"errors"
	"strings"

	"github.com/taxepay/internal/models"

	"gorm.io/gorm"
)

// OperatorRepository economic operator data access interface
type OperatorRepository interface {
	Create(operator *models.EconomicOperator) error
	Update(operator *models.EconomicOperator) error
	GetByID(id uint) (*models.EconomicOperator, error)
	GetByRegistrationNumber(regNumber string) (*models.EconomicOperator, error)
	List(filter OperatorListFilter) ([]models.EconomicOperator, int64, error)
}

// GormOperatorRepository GORM implementation
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates the operator repository
func NewOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// Create inserts an operator
func (r *GormOperatorRepository) Create(operator *models.EconomicOperator) error {
	return r.db.Create(operator).Error
}

// Update persists an operator
func (r *GormOperatorRepository) Update(operator *models.EconomicOperator) error {
	return r.db.Save(operator).Error
}

// GetByID fetches an operator by primary key
func (r *GormOperatorRepository) GetByID(id uint) (*models.EconomicOperator, error) {
	var operator models.EconomicOperator
	if err := r.db.First(&operator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &operator, nil
}

// GetByTaxID fetches an operator by fiscal identifier
func (r *GormOperatorRepository) GetByRegistrationNumber(regNumber string) (*models.EconomicOperator, error) {
	regNumber = strings.TrimSpace(regNumber)
	if regNumber == "" {
		return nil, nil
	}
	var operator models.EconomicOperator
	result := r.db.Where("tax_id = ?", regNumber).Limit(1).Find(&operator)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &operator, nil
}

// List returns operators with paging and search
func (r *GormOperatorRepository) List(filter OperatorListFilter) ([]models.EconomicOperator, int64, error) {
	query := r.db.Model(&models.EconomicOperator{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("business_name LIKE ? OR registration_number LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var operators []models.EconomicOperator
	if err := query.Order("id desc").Find(&operators).Error; err != nil {
		return nil, 0, err
	}
	return operators, total, nil
}
