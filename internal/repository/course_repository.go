package repository

import (
	"crypto_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("number")
	}).Preload("Modules.Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order`")
	}).First(&course, id).Error
	return &course, err
}

// FindModuleByNumber resolves a module by its platform-wide number.
func (r *CourseRepository) FindModuleByNumber(number uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order`")
	}).Where("number = ?", number).First(&module).Error
	return &module, err
}
