package repository

import (
	"errors"

	"notebook/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *DefaultCourseRepository {
	return &DefaultCourseRepository{db: db}
}

func (c *DefaultCourseRepository) FindByID(id int64) (*entity.Course, error) {
	var course entity.Course
	err := c.db.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *DefaultCourseRepository) FindModuleByID(id int64) (*entity.CourseModule, error) {
	var cm entity.CourseModule
	err := c.db.First(&cm, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *DefaultCourseRepository) IsEnrolled(courseID, userID int64) (bool, error) {
	var exists int
	err := c.db.
		Raw("SELECT EXISTS(SELECT 1 FROM enrolments WHERE course_id = ? AND user_id = ? AND active = true)",
			courseID, userID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (c *DefaultCourseRepository) Save(course *entity.Course) error {
	return c.db.Save(course).Error
}

func (c *DefaultCourseRepository) SaveModule(cm *entity.CourseModule) error {
	return c.db.Save(cm).Error
}

func (c *DefaultCourseRepository) SaveEnrolment(e *entity.Enrolment) error {
	return c.db.Save(e).Error
}
