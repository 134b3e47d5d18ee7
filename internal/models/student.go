package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student represents a learner enrolled in an academic department.
type Student struct {
	ID                   string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID            string             `gorm:"size:64;uniqueIndex;not null" json:"studentId"`
	FirstName            string             `gorm:"size:255;not null" json:"firstName"`
	LastName             string             `gorm:"size:255;not null" json:"lastName"`
	MiddleName           string             `gorm:"size:255" json:"middleName"`
	ProfileImage         string             `gorm:"size:512" json:"profileImage"`
	Email                string             `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ContactNo            string             `gorm:"size:32;not null" json:"contactNo"`
	Gender               string             `gorm:"size:16;not null" json:"gender"`
	BloodGroup           string             `gorm:"size:8;not null" json:"bloodGroup"`
	AcademicSemesterID   string             `gorm:"type:varchar(36);not null;index" json:"academicSemesterId"`
	AcademicDepartmentID string             `gorm:"type:varchar(36);not null;index" json:"academicDepartmentId"`
	AcademicFacultyID    string             `gorm:"type:varchar(36);not null;index" json:"academicFacultyId"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
	AcademicSemester     AcademicSemester   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"academicSemester"`
	AcademicDepartment   AcademicDepartment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"academicDepartment"`
	AcademicFaculty      AcademicFaculty    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"academicFaculty"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (s *Student) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Student relation names as preloaded by the persistence layer.
const (
	RelationAcademicFaculty    = "AcademicFaculty"
	RelationAcademicDepartment = "AcademicDepartment"
	RelationAcademicSemester   = "AcademicSemester"
)

// StudentRelations lists every relation attached to a student on read.
var StudentRelations = []string{
	RelationAcademicFaculty,
	RelationAcademicDepartment,
	RelationAcademicSemester,
}
