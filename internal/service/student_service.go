package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/observability"
	"github.com/noah-isme/student-service/internal/query"
	"github.com/noah-isme/student-service/internal/repository"
)

// Error kinds surfaced by StudentService. They are the repository kinds, so
// persistence failures reach callers unchanged.
var (
	ErrStudentNotFound     = repository.ErrNotFound
	ErrConstraintViolation = repository.ErrConstraintViolation
	ErrBackendUnavailable  = repository.ErrBackendUnavailable
)

// StudentService exposes the student data-access use cases.
type StudentService interface {
	Insert(ctx context.Context, student models.Student) (models.Student, error)
	List(ctx context.Context, filter query.StudentFilter, options query.PaginationOptions) (dto.GenericResponse[[]models.Student], error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (models.Student, error)
	Delete(ctx context.Context, id string) (models.Student, error)
}

// StudentServiceOptions carries the optional collaborators of the student service.
type StudentServiceOptions struct {
	Cache     *redis.Client
	CacheTTL  time.Duration
	Publisher StudentEventPublisher
	Paginator query.Paginator
}

type studentService struct {
	repo      repository.StudentRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	publisher StudentEventPublisher
	paginator query.Paginator
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, opts StudentServiceOptions, logger zerolog.Logger) StudentService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	paginator := opts.Paginator
	if paginator.DefaultLimit <= 0 {
		paginator = query.NewPaginator(query.DefaultLimit, query.DefaultMaxLimit)
	}

	return &studentService{
		repo:      repo,
		cache:     opts.Cache,
		cacheTTL:  ttl,
		publisher: opts.Publisher,
		paginator: paginator,
		logger:    logger.With().Str("component", "student_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/student-service/internal/service/student"),
	}
}

func (s *studentService) Insert(ctx context.Context, student models.Student) (models.Student, error) {
	ctx, span := s.tracer.Start(ctx, "student.insert")
	defer span.End()

	if err := s.repo.Create(ctx, &student); err != nil {
		s.fail(span, "insert", err)
		return models.Student{}, err
	}

	span.SetAttributes(attribute.String("student.id", student.ID))
	observability.StudentOperations().WithLabelValues("insert", "success").Inc()
	s.publish(ctx, StudentEventCreated, student)

	return student, nil
}

func (s *studentService) List(ctx context.Context, filter query.StudentFilter, options query.PaginationOptions) (dto.GenericResponse[[]models.Student], error) {
	ctx, span := s.tracer.Start(ctx, "student.list")
	defer span.End()

	pagination := s.paginator.Calculate(options)
	where := query.BuildStudentPredicate(filter)
	span.SetAttributes(
		attribute.Int("pagination.page", pagination.Page),
		attribute.Int("pagination.limit", pagination.Limit),
		attribute.Bool("query.filtered", !query.IsEmpty(where)),
	)

	students, err := s.repo.FindMany(ctx, repository.StudentQuery{
		Where:   where,
		Skip:    pagination.Skip,
		Take:    pagination.Limit,
		OrderBy: pagination.Order,
	})
	if err != nil {
		s.fail(span, "list", err)
		return dto.GenericResponse[[]models.Student]{}, err
	}

	// the count runs after the page query without a shared snapshot
	total, err := s.repo.Count(ctx, where)
	if err != nil {
		s.fail(span, "list", err)
		return dto.GenericResponse[[]models.Student]{}, err
	}

	if students == nil {
		students = []models.Student{}
	}
	observability.StudentOperations().WithLabelValues("list", "success").Inc()

	return dto.GenericResponse[[]models.Student]{
		Meta: dto.ResponseMeta{
			Total: total,
			Page:  pagination.Page,
			Limit: pagination.Limit,
		},
		Data: students,
	}, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	ctx, span := s.tracer.Start(ctx, "student.get")
	defer span.End()
	span.SetAttributes(attribute.String("student.id", id))

	if cached, ok := s.readCache(ctx, id); ok {
		observability.StudentOperations().WithLabelValues("get", "success").Inc()
		return &cached, nil
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			observability.StudentOperations().WithLabelValues("get", "not_found").Inc()
			return nil, nil
		}
		s.fail(span, "get", err)
		return nil, err
	}

	s.writeCache(ctx, student)
	observability.StudentOperations().WithLabelValues("get", "success").Inc()

	return &student, nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (models.Student, error) {
	ctx, span := s.tracer.Start(ctx, "student.update")
	defer span.End()
	span.SetAttributes(attribute.String("student.id", id))

	updates := payload.Columns()
	s.invalidateCache(ctx, id)
	student, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.fail(span, "update", err)
		return models.Student{}, err
	}

	s.invalidateCache(ctx, id)
	observability.StudentOperations().WithLabelValues("update", "success").Inc()
	if len(updates) > 0 {
		s.publish(ctx, StudentEventUpdated, student)
	}

	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) (models.Student, error) {
	ctx, span := s.tracer.Start(ctx, "student.delete")
	defer span.End()
	span.SetAttributes(attribute.String("student.id", id))

	s.invalidateCache(ctx, id)
	student, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.fail(span, "delete", err)
		return models.Student{}, err
	}

	s.invalidateCache(ctx, id)
	observability.StudentOperations().WithLabelValues("delete", "success").Inc()
	s.publish(ctx, StudentEventDeleted, student)

	return student, nil
}

func (s *studentService) fail(span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, operation+" failed")

	outcome := "error"
	switch {
	case errors.Is(err, ErrStudentNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrConstraintViolation):
		outcome = "constraint_violation"
	case errors.Is(err, ErrBackendUnavailable):
		outcome = "unavailable"
	}
	observability.StudentOperations().WithLabelValues(operation, outcome).Inc()
}

func studentCacheKey(id string) string {
	return fmt.Sprintf("student:%s", id)
}

func (s *studentService) readCache(ctx context.Context, id string) (models.Student, bool) {
	if s.cache == nil {
		return models.Student{}, false
	}

	cached, err := s.cache.Get(ctx, studentCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("student_id", id).Msg("failed to read student cache")
		}
		observability.StudentCacheLookups().WithLabelValues("miss").Inc()
		return models.Student{}, false
	}

	var student models.Student
	if err := json.Unmarshal([]byte(cached), &student); err != nil {
		s.logger.Warn().Err(err).Str("student_id", id).Msg("discarding malformed student cache entry")
		observability.StudentCacheLookups().WithLabelValues("miss").Inc()
		return models.Student{}, false
	}

	s.logger.Debug().Str("student_id", id).Msg("student cache hit")
	observability.StudentCacheLookups().WithLabelValues("hit").Inc()
	return student, true
}

func (s *studentService) writeCache(ctx context.Context, student models.Student) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(student)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, studentCacheKey(student.ID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("student_id", student.ID).Msg("failed to store student cache")
	}
}

// invalidateCache runs before and after each write, so a single failed delete
// cannot leave an entry describing the row as it was before the write.
func (s *studentService) invalidateCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, studentCacheKey(id)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("student_id", id).Msg("failed to invalidate student cache")
	}
}

func (s *studentService) publish(ctx context.Context, eventType string, student models.Student) {
	if s.publisher == nil {
		return
	}
	event := StudentEvent{
		Type:       eventType,
		StudentID:  student.ID,
		Student:    student,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Str("student_id", student.ID).Msg("failed to publish student event")
	}
}
