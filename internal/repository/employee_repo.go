package repository

import (
	"errors"

	"timetrack/internal/models"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	GetByID(id uint) (*models.Employee, error)
	EnsureDefault(id uint, name string) (*models.Employee, bool, error)
}

type GormEmployeeRepository struct {
	db *gorm.DB
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	// Automigrate creates missing tables
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		return nil, err
	}
	return &GormEmployeeRepository{db: db}, nil
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &employee, nil
}

// EnsureDefault creates the employee with the given id unless it exists.
// created reports whether a row was inserted.
func (r *GormEmployeeRepository) EnsureDefault(id uint, name string) (*models.Employee, bool, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	employee := &models.Employee{ID: id, Name: name}
	if err := r.db.Create(employee).Error; err != nil {
		return nil, false, translate(err)
	}
	return employee, true, nil
}
