package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/query"
)

type academicFixture struct {
	faculty    models.AcademicFaculty
	department models.AcademicDepartment
	semester   models.AcademicSemester
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AutoMigrateTargets()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedAcademics(t *testing.T, db *gorm.DB, suffix string) academicFixture {
	t.Helper()
	faculty := models.AcademicFaculty{Title: "Faculty of Science " + suffix}
	require.NoError(t, db.Create(&faculty).Error)
	department := models.AcademicDepartment{Title: "Computer Science " + suffix, AcademicFacultyID: faculty.ID}
	require.NoError(t, db.Create(&department).Error)
	semester := models.AcademicSemester{Year: 2025, Title: "Autumn " + suffix, Code: "01", StartMonth: "January", EndMonth: "May"}
	require.NoError(t, db.Create(&semester).Error)
	return academicFixture{faculty: faculty, department: department, semester: semester}
}

func newStudent(fx academicFixture, studentID, first, last, email string, createdAt time.Time) models.Student {
	return models.Student{
		StudentID:            studentID,
		FirstName:            first,
		LastName:             last,
		Email:                email,
		ContactNo:            "0170000" + studentID,
		Gender:               "male",
		BloodGroup:           "O+",
		AcademicFacultyID:    fx.faculty.ID,
		AcademicDepartmentID: fx.department.ID,
		AcademicSemesterID:   fx.semester.ID,
		CreatedAt:            createdAt,
	}
}

func TestStudentRepositoryCreateAttachesRelations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	fx := seedAcademics(t, db, "A")

	student := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	require.NoError(t, repo.Create(context.Background(), &student))

	require.NotEmpty(t, student.ID)
	require.Equal(t, fx.faculty.Title, student.AcademicFaculty.Title)
	require.Equal(t, fx.department.ID, student.AcademicDepartment.ID)
	require.Equal(t, fx.semester.ID, student.AcademicSemester.ID)

	found, err := repo.FindByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, "john@example.com", found.Email)
	require.Equal(t, fx.faculty.ID, found.AcademicFaculty.ID)
}

func TestStudentRepositoryCreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	fx := seedAcademics(t, db, "A")

	first := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	require.NoError(t, repo.Create(context.Background(), &first))

	second := newStudent(fx, "210002", "Johnny", "Doe", "john@example.com", time.Time{})
	err := repo.Create(context.Background(), &second)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestStudentRepositoryCreateUnknownFaculty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	fx := seedAcademics(t, db, "A")

	student := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	student.AcademicFacultyID = "missing-faculty"
	err := repo.Create(context.Background(), &student)
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestStudentRepositoryFindManyFiltersSortsAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()
	science := seedAcademics(t, db, "A")
	arts := seedAcademics(t, db, "B")

	base := time.Now().Add(-time.Hour)
	seed := []models.Student{
		newStudent(science, "210001", "John", "Doe", "jd@example.com", base),
		newStudent(science, "210002", "Mary", "Johnson", "mary@example.com", base.Add(time.Minute)),
		newStudent(arts, "210003", "Johnathan", "Smith", "smith@example.com", base.Add(2*time.Minute)),
		newStudent(science, "210004", "Alice", "Stone", "alice@example.com", base.Add(3*time.Minute)),
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	department := science.department.ID
	where := query.BuildStudentPredicate(query.StudentFilter{SearchTerm: "JOHN", AcademicDepartmentID: &department})
	students, err := repo.FindMany(ctx, StudentQuery{Where: where, Take: 10, OrderBy: query.OrderBy{Column: "created_at", Desc: true}})
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "Mary", students[0].FirstName, "expected newest record first")
	require.Equal(t, "John", students[1].FirstName)
	for _, student := range students {
		require.Equal(t, department, student.AcademicDepartment.ID)
	}

	total, err := repo.Count(ctx, where)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	page, err := repo.FindMany(ctx, StudentQuery{Where: query.MatchAll(), Skip: 1, Take: 2, OrderBy: query.OrderBy{Column: "created_at"}})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "Mary", page[0].FirstName)
	require.Equal(t, "Johnathan", page[1].FirstName)

	total, err = repo.Count(ctx, query.MatchAll())
	require.NoError(t, err)
	require.Equal(t, int64(4), total, "count ignores pagination")
}

func TestStudentRepositoryFindManyEscapesLikeWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()
	fx := seedAcademics(t, db, "A")

	plain := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	require.NoError(t, repo.Create(ctx, &plain))

	where := query.BuildStudentPredicate(query.StudentFilter{SearchTerm: "%"})
	students, err := repo.FindMany(ctx, StudentQuery{Where: where, Take: 10})
	require.NoError(t, err)
	require.Empty(t, students)
}

func TestStudentRepositoryRejectsUnknownColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.FindMany(context.Background(), StudentQuery{Where: query.Equals{Field: "password", Value: "x"}})
	require.Error(t, err)

	_, err = repo.FindMany(context.Background(), StudentQuery{OrderBy: query.OrderBy{Column: "1; DROP TABLE students"}})
	require.Error(t, err)

	_, err = repo.Count(context.Background(), query.RelatedIDEquals{Relation: "Guardian", Value: "x"})
	require.Error(t, err)
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()
	fx := seedAcademics(t, db, "A")
	other := seedAcademics(t, db, "B")

	student := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	require.NoError(t, repo.Create(ctx, &student))

	updated, err := repo.Update(ctx, student.ID, map[string]interface{}{
		"first_name":             "Jonathan",
		"academic_department_id": other.department.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Jonathan", updated.FirstName)
	require.Equal(t, "Doe", updated.LastName)
	require.Equal(t, other.department.Title, updated.AcademicDepartment.Title)

	unchanged, err := repo.Update(ctx, student.ID, map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, "Jonathan", unchanged.FirstName)

	_, err = repo.Update(ctx, "missing", map[string]interface{}{"first_name": "X"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStudentRepositoryDeleteReturnsPriorState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()
	fx := seedAcademics(t, db, "A")

	student := newStudent(fx, "210001", "John", "Doe", "john@example.com", time.Time{})
	require.NoError(t, repo.Create(ctx, &student))

	deleted, err := repo.Delete(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, student.ID, deleted.ID)
	require.Equal(t, fx.semester.ID, deleted.AcademicSemester.ID)

	_, err = repo.FindByID(ctx, student.ID)
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = repo.Delete(ctx, student.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
