package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/query"
)

var studentColumns = map[string]struct{}{
	"id":                     {},
	"student_id":             {},
	"first_name":             {},
	"last_name":              {},
	"middle_name":            {},
	"profile_image":          {},
	"email":                  {},
	"contact_no":             {},
	"gender":                 {},
	"blood_group":            {},
	"academic_semester_id":   {},
	"academic_department_id": {},
	"academic_faculty_id":    {},
	"created_at":             {},
	"updated_at":             {},
}

// relationForeignKeys maps a student relation to the column holding its identity.
var relationForeignKeys = map[string]string{
	models.RelationAcademicFaculty:    "academic_faculty_id",
	models.RelationAcademicDepartment: "academic_department_id",
	models.RelationAcademicSemester:   "academic_semester_id",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// renderPredicate renders p into a SQL condition with positional arguments.
// An empty condition means the predicate matches every row.
func renderPredicate(p query.Predicate) (string, []interface{}, error) {
	switch node := p.(type) {
	case nil:
		return "", nil, nil
	case query.And:
		return renderGroup([]query.Predicate(node), " AND ")
	case query.Or:
		return renderGroup([]query.Predicate(node), " OR ")
	case query.Contains:
		column, err := studentColumn(node.Field)
		if err != nil {
			return "", nil, err
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(node.Value)) + "%"
		return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column), []interface{}{pattern}, nil
	case query.Equals:
		column, err := studentColumn(node.Field)
		if err != nil {
			return "", nil, err
		}
		return column + " = ?", []interface{}{node.Value}, nil
	case query.RelatedIDEquals:
		column, ok := relationForeignKeys[node.Relation]
		if !ok {
			return "", nil, fmt.Errorf("unknown student relation %q", node.Relation)
		}
		return column + " = ?", []interface{}{node.Value}, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func renderGroup(children []query.Predicate, separator string) (string, []interface{}, error) {
	parts, args, err := renderParts(children, separator)
	if err != nil {
		return "", nil, err
	}
	return strings.Join(parts, separator), args, nil
}

// renderParts renders each child. Nested groups with more than one condition
// are parenthesised; leaf conditions are not.
func renderParts(children []query.Predicate, separator string) ([]string, []interface{}, error) {
	parts := make([]string, 0, len(children))
	args := make([]interface{}, 0)
	for _, child := range children {
		var (
			sql       string
			childArgs []interface{}
			err       error
		)
		switch group := child.(type) {
		case query.And:
			sql, childArgs, err = renderNested([]query.Predicate(group), " AND ")
		case query.Or:
			sql, childArgs, err = renderNested([]query.Predicate(group), " OR ")
		default:
			sql, childArgs, err = renderPredicate(child)
		}
		if err != nil {
			return nil, nil, err
		}
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = append(args, childArgs...)
	}
	return parts, args, nil
}

func renderNested(children []query.Predicate, separator string) (string, []interface{}, error) {
	parts, args, err := renderParts(children, separator)
	if err != nil {
		return "", nil, err
	}
	switch len(parts) {
	case 0:
		return "", nil, nil
	case 1:
		return parts[0], args, nil
	}
	return "(" + strings.Join(parts, separator) + ")", args, nil
}

func studentColumn(field string) (string, error) {
	if _, ok := studentColumns[field]; !ok {
		return "", fmt.Errorf("unknown student column %q", field)
	}
	return field, nil
}
