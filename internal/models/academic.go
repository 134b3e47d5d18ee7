package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicFaculty groups departments under a single faculty.
type AcademicFaculty struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AcademicDepartment belongs to one faculty.
type AcademicDepartment struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title             string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	AcademicFacultyID string    `gorm:"type:varchar(36);not null;index" json:"academicFacultyId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AcademicSemester describes one term of an academic year.
type AcademicSemester struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Year       int       `gorm:"not null" json:"year"`
	Title      string    `gorm:"size:32;not null" json:"title"`
	Code       string    `gorm:"size:8;not null" json:"code"`
	StartMonth string    `gorm:"size:16;not null" json:"startMonth"`
	EndMonth   string    `gorm:"size:16;not null" json:"endMonth"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (f *AcademicFaculty) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (d *AcademicDepartment) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (s *AcademicSemester) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// AutoMigrateTargets returns the models owned by the student service in dependency order.
func AutoMigrateTargets() []interface{} {
	return []interface{}{
		&AcademicFaculty{},
		&AcademicDepartment{},
		&AcademicSemester{},
		&Student{},
	}
}
