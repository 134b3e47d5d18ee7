package query

import (
	"strings"

	"github.com/noah-isme/student-service/internal/models"
)

// FilterKey enumerates the exact-match filters accepted when listing students.
type FilterKey int

const (
	FilterStudentID FilterKey = iota
	FilterEmail
	FilterContactNo
	FilterGender
	FilterBloodGroup
	FilterAcademicFacultyID
	FilterAcademicDepartmentID
	FilterAcademicSemesterID
)

type keyKind int

const (
	keyDirect keyKind = iota
	keyRelational
)

type keySpec struct {
	name     string
	kind     keyKind
	target   string
	foldCase bool
}

// target is the student column for direct keys and the relation name for relational keys.
var filterKeys = map[FilterKey]keySpec{
	FilterStudentID:            {name: "studentId", kind: keyDirect, target: "student_id"},
	FilterEmail:                {name: "email", kind: keyDirect, target: "email", foldCase: true},
	FilterContactNo:            {name: "contactNo", kind: keyDirect, target: "contact_no"},
	FilterGender:               {name: "gender", kind: keyDirect, target: "gender"},
	FilterBloodGroup:           {name: "bloodGroup", kind: keyDirect, target: "blood_group"},
	FilterAcademicFacultyID:    {name: "academicFacultyId", kind: keyRelational, target: models.RelationAcademicFaculty},
	FilterAcademicDepartmentID: {name: "academicDepartmentId", kind: keyRelational, target: models.RelationAcademicDepartment},
	FilterAcademicSemesterID:   {name: "academicSemesterId", kind: keyRelational, target: models.RelationAcademicSemester},
}

// FilterKeys returns every filter key in declaration order.
func FilterKeys() []FilterKey {
	keys := make([]FilterKey, 0, len(filterKeys))
	for key := FilterStudentID; key <= FilterAcademicSemesterID; key++ {
		keys = append(keys, key)
	}
	return keys
}

// ParseFilterKey resolves a request parameter name to its filter key.
func ParseFilterKey(name string) (FilterKey, bool) {
	for key, spec := range filterKeys {
		if spec.name == name {
			return key, true
		}
	}
	return 0, false
}

// Name returns the request parameter name of the key.
func (k FilterKey) Name() string {
	return filterKeys[k].name
}

// IsRelational reports whether the key targets a related entity's identity.
func (k FilterKey) IsRelational() bool {
	return filterKeys[k].kind == keyRelational
}

// Predicate returns the condition the key imposes for value. Email values are
// lowercased to match how emails are stored.
func (k FilterKey) Predicate(value string) Predicate {
	spec := filterKeys[k]
	if k.IsRelational() {
		return RelatedIDEquals{Relation: spec.target, Value: value}
	}
	if spec.foldCase {
		value = strings.ToLower(value)
	}
	return Equals{Field: spec.target, Value: value}
}

// SearchableFields are the student columns matched by a free-text search term.
var SearchableFields = []string{
	"first_name",
	"last_name",
	"middle_name",
	"email",
	"contact_no",
	"student_id",
}

// StudentFilter is the typed list filter. Nil fields are not applied.
type StudentFilter struct {
	SearchTerm           string
	StudentID            *string
	Email                *string
	ContactNo            *string
	Gender               *string
	BloodGroup           *string
	AcademicFacultyID    *string
	AcademicDepartmentID *string
	AcademicSemesterID   *string
}

// FilterValue pairs a filter key with the value supplied for it.
type FilterValue struct {
	Key   FilterKey
	Value string
}

func (f *StudentFilter) field(key FilterKey) **string {
	switch key {
	case FilterStudentID:
		return &f.StudentID
	case FilterEmail:
		return &f.Email
	case FilterContactNo:
		return &f.ContactNo
	case FilterGender:
		return &f.Gender
	case FilterBloodGroup:
		return &f.BloodGroup
	case FilterAcademicFacultyID:
		return &f.AcademicFacultyID
	case FilterAcademicDepartmentID:
		return &f.AcademicDepartmentID
	case FilterAcademicSemesterID:
		return &f.AcademicSemesterID
	default:
		return nil
	}
}

// Set assigns value to the field backing key.
func (f *StudentFilter) Set(key FilterKey, value string) {
	if ptr := f.field(key); ptr != nil {
		v := value
		*ptr = &v
	}
}

// Values returns the supplied filter values in key declaration order.
func (f StudentFilter) Values() []FilterValue {
	values := make([]FilterValue, 0)
	for _, key := range FilterKeys() {
		if ptr := f.field(key); ptr != nil && *ptr != nil {
			values = append(values, FilterValue{Key: key, Value: **ptr})
		}
	}
	return values
}

// BuildStudentPredicate translates the filter into a predicate tree: an OR of
// searchable-field matches for the search term, AND-ed with one condition per
// supplied filter key. With neither, the result matches every student.
func BuildStudentPredicate(filter StudentFilter) Predicate {
	conditions := And{}

	if filter.SearchTerm != "" {
		search := make(Or, 0, len(SearchableFields))
		for _, field := range SearchableFields {
			search = append(search, Contains{Field: field, Value: filter.SearchTerm})
		}
		conditions = append(conditions, search)
	}

	if values := filter.Values(); len(values) > 0 {
		exact := make(And, 0, len(values))
		for _, fv := range values {
			exact = append(exact, fv.Key.Predicate(fv.Value))
		}
		conditions = append(conditions, exact)
	}

	if len(conditions) == 0 {
		return MatchAll()
	}
	return conditions
}
