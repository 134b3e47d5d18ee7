package dto

import (
	"strings"

	"github.com/noah-isme/student-service/internal/models"
)

// ResponseMeta carries the pagination metadata of a list response.
type ResponseMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// GenericResponse pairs one page of results with its metadata.
type GenericResponse[T any] struct {
	Meta ResponseMeta `json:"meta"`
	Data T            `json:"data"`
}

// StudentCreateRequest is the payload accepted when registering a student.
type StudentCreateRequest struct {
	StudentID            string `json:"studentId" validate:"required,max=64"`
	FirstName            string `json:"firstName" validate:"required,max=255"`
	LastName             string `json:"lastName" validate:"required,max=255"`
	MiddleName           string `json:"middleName" validate:"omitempty,max=255"`
	ProfileImage         string `json:"profileImage" validate:"omitempty,url,max=512"`
	Email                string `json:"email" validate:"required,email,max=255"`
	ContactNo            string `json:"contactNo" validate:"required,max=32"`
	Gender               string `json:"gender" validate:"required,oneof=male female other"`
	BloodGroup           string `json:"bloodGroup" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	AcademicSemesterID   string `json:"academicSemesterId" validate:"required,max=36"`
	AcademicDepartmentID string `json:"academicDepartmentId" validate:"required,max=36"`
	AcademicFacultyID    string `json:"academicFacultyId" validate:"required,max=36"`
}

// Normalized returns a copy with surrounding whitespace removed and the email lowercased.
func (r StudentCreateRequest) Normalized() StudentCreateRequest {
	return StudentCreateRequest{
		StudentID:            strings.TrimSpace(r.StudentID),
		FirstName:            strings.TrimSpace(r.FirstName),
		LastName:             strings.TrimSpace(r.LastName),
		MiddleName:           strings.TrimSpace(r.MiddleName),
		ProfileImage:         strings.TrimSpace(r.ProfileImage),
		Email:                strings.ToLower(strings.TrimSpace(r.Email)),
		ContactNo:            strings.TrimSpace(r.ContactNo),
		Gender:               strings.TrimSpace(r.Gender),
		BloodGroup:           strings.TrimSpace(r.BloodGroup),
		AcademicSemesterID:   strings.TrimSpace(r.AcademicSemesterID),
		AcademicDepartmentID: strings.TrimSpace(r.AcademicDepartmentID),
		AcademicFacultyID:    strings.TrimSpace(r.AcademicFacultyID),
	}
}

// ToModel converts the normalised request into a student model.
func (r StudentCreateRequest) ToModel() models.Student {
	n := r.Normalized()
	return models.Student{
		StudentID:            n.StudentID,
		FirstName:            n.FirstName,
		LastName:             n.LastName,
		MiddleName:           n.MiddleName,
		ProfileImage:         n.ProfileImage,
		Email:                n.Email,
		ContactNo:            n.ContactNo,
		Gender:               n.Gender,
		BloodGroup:           n.BloodGroup,
		AcademicSemesterID:   n.AcademicSemesterID,
		AcademicDepartmentID: n.AcademicDepartmentID,
		AcademicFacultyID:    n.AcademicFacultyID,
	}
}

// StudentUpdateRequest captures partial student updates. Nil fields are left untouched.
type StudentUpdateRequest struct {
	StudentID            *string `json:"studentId" validate:"omitempty,min=1,max=64"`
	FirstName            *string `json:"firstName" validate:"omitempty,min=1,max=255"`
	LastName             *string `json:"lastName" validate:"omitempty,min=1,max=255"`
	MiddleName           *string `json:"middleName" validate:"omitempty,max=255"`
	ProfileImage         *string `json:"profileImage" validate:"omitempty,url,max=512"`
	Email                *string `json:"email" validate:"omitempty,email,max=255"`
	ContactNo            *string `json:"contactNo" validate:"omitempty,min=1,max=32"`
	Gender               *string `json:"gender" validate:"omitempty,oneof=male female other"`
	BloodGroup           *string `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	AcademicSemesterID   *string `json:"academicSemesterId" validate:"omitempty,min=1,max=36"`
	AcademicDepartmentID *string `json:"academicDepartmentId" validate:"omitempty,min=1,max=36"`
	AcademicFacultyID    *string `json:"academicFacultyId" validate:"omitempty,min=1,max=36"`
}

// Normalized returns a copy with supplied values trimmed and the email lowercased.
func (r StudentUpdateRequest) Normalized() StudentUpdateRequest {
	trim := func(value *string) *string {
		if value == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*value)
		return &trimmed
	}

	n := StudentUpdateRequest{
		StudentID:            trim(r.StudentID),
		FirstName:            trim(r.FirstName),
		LastName:             trim(r.LastName),
		MiddleName:           trim(r.MiddleName),
		ProfileImage:         trim(r.ProfileImage),
		Email:                trim(r.Email),
		ContactNo:            trim(r.ContactNo),
		Gender:               trim(r.Gender),
		BloodGroup:           trim(r.BloodGroup),
		AcademicSemesterID:   trim(r.AcademicSemesterID),
		AcademicDepartmentID: trim(r.AcademicDepartmentID),
		AcademicFacultyID:    trim(r.AcademicFacultyID),
	}
	if n.Email != nil {
		lowered := strings.ToLower(*n.Email)
		n.Email = &lowered
	}
	return n
}

// Columns returns the supplied fields keyed by student column.
func (r StudentUpdateRequest) Columns() map[string]interface{} {
	n := r.Normalized()
	updates := make(map[string]interface{})
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}

	set("student_id", n.StudentID)
	set("first_name", n.FirstName)
	set("last_name", n.LastName)
	set("middle_name", n.MiddleName)
	set("profile_image", n.ProfileImage)
	set("email", n.Email)
	set("contact_no", n.ContactNo)
	set("gender", n.Gender)
	set("blood_group", n.BloodGroup)
	set("academic_semester_id", n.AcademicSemesterID)
	set("academic_department_id", n.AcademicDepartmentID)
	set("academic_faculty_id", n.AcademicFacultyID)

	return updates
}
