package repository

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/noah-isme/student-service/internal/query"
)

func setupMockPostgres(t *testing.T) (StudentRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewStudentRepository(db), mock
}

func TestPostgresSearchQueryShape(t *testing.T) {
	repo, mock := setupMockPostgres(t)

	filter := query.StudentFilter{SearchTerm: "john"}
	filter.Set(query.FilterAcademicDepartmentID, "d1")

	mock.ExpectQuery(`SELECT \* FROM "students" WHERE .*LOWER\(first_name\) LIKE \$1 ESCAPE .*academic_department_id = \$7.*ORDER BY "created_at" DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	students, err := repo.FindMany(context.Background(), StudentQuery{
		Where:   query.BuildStudentPredicate(filter),
		Take:    10,
		OrderBy: query.OrderBy{Column: "created_at", Desc: true},
	})
	require.NoError(t, err)
	require.Empty(t, students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAdminShutdownIsUnavailable(t *testing.T) {
	repo, mock := setupMockPostgres(t)

	pgErr := &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}
	mock.ExpectQuery(`SELECT \* FROM "students"`).WillReturnError(pgErr)

	_, err := repo.FindByID(context.Background(), "s1")
	require.ErrorIs(t, err, ErrBackendUnavailable)
	require.ErrorIs(t, err, pgErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNetworkFailureIsUnavailable(t *testing.T) {
	repo, mock := setupMockPostgres(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "students"`).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, err := repo.Count(context.Background(), query.MatchAll())
	require.ErrorIs(t, err, ErrBackendUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUnknownErrorPassesThrough(t *testing.T) {
	repo, mock := setupMockPostgres(t)

	original := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	mock.ExpectQuery(`SELECT \* FROM "students"`).WillReturnError(original)

	_, err := repo.FindMany(context.Background(), StudentQuery{Where: query.MatchAll()})
	require.ErrorIs(t, err, original)
	require.NotErrorIs(t, err, ErrBackendUnavailable)
	require.NotErrorIs(t, err, ErrConstraintViolation)
	require.NotErrorIs(t, err, ErrNotFound)

	var classified *Error
	require.False(t, errors.As(err, &classified))
	require.NoError(t, mock.ExpectationsWereMet())
}
