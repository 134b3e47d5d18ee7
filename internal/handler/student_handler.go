package handler

import (
	"errors"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/query"
	"github.com/noah-isme/student-service/internal/service"
	"github.com/noah-isme/student-service/internal/utils"
)

// StudentHandler exposes the student data-access operations over HTTP.
type StudentHandler struct {
	service   service.StudentService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, validate *validator.Validate, logger zerolog.Logger) *StudentHandler {
	if validate == nil {
		validate = NewValidator()
	}

	return &StudentHandler{
		service:   service,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the read routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterWrites attaches the mutating routes. Callers guard them with role checks.
func (h *StudentHandler) RegisterWrites(router fiber.Router, guards ...fiber.Handler) {
	router.Post("", chain(guards, h.create)...)
	router.Patch("/:id", chain(guards, h.update)...)
	router.Delete("/:id", chain(guards, h.delete)...)
}

func chain(guards []fiber.Handler, final fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, final)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payload = payload.Normalized()
	payload.FirstName = h.stripMarkup(payload.FirstName)
	payload.LastName = h.stripMarkup(payload.LastName)
	payload.MiddleName = h.stripMarkup(payload.MiddleName)

	if err := h.validator.Struct(payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid student payload", validationDetails(err))
	}

	student, err := h.service.Insert(c.UserContext(), payload.ToModel())
	if err != nil {
		return h.respondError(c, err, "failed to create student")
	}

	return utils.Respond(c, fiber.StatusCreated, student, "student created", nil)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	filter := query.StudentFilter{SearchTerm: c.Query("searchTerm")}
	c.Context().QueryArgs().VisitAll(func(name, raw []byte) {
		key, ok := query.ParseFilterKey(string(name))
		if !ok {
			return
		}
		if value := strings.TrimSpace(string(raw)); value != "" {
			filter.Set(key, value)
		}
	})

	options := query.PaginationOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    strings.TrimSpace(c.Query("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(c.Query("sortOrder"))),
	}

	result, err := h.service.List(c.UserContext(), filter, options)
	if err != nil {
		return h.respondError(c, err, "failed to list students")
	}

	return utils.OK(c, result.Data, "students retrieved", result.Meta)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := studentIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	student, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "failed to fetch student")
	}
	if student == nil {
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := studentIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payload = payload.Normalized()
	payload.FirstName = h.stripMarkupOptional(payload.FirstName)
	payload.LastName = h.stripMarkupOptional(payload.LastName)
	payload.MiddleName = h.stripMarkupOptional(payload.MiddleName)

	if err := h.validator.Struct(payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid student payload", validationDetails(err))
	}

	student, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.respondError(c, err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := studentIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	student, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", student)
}

func (h *StudentHandler) respondError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrConstraintViolation):
		return utils.SendError(c, fiber.StatusConflict, "student conflicts with existing data")
	case errors.Is(err, service.ErrBackendUnavailable):
		requestLogger(h.logger, c).Error().Err(err).Msg("student backend unavailable")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "student storage unavailable")
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid student payload", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}

// stripMarkup removes HTML tags. The policy escapes entities in its output,
// so the result is unescaped to keep characters such as ' and & intact.
func (h *StudentHandler) stripMarkup(value string) string {
	return strings.TrimSpace(html.UnescapeString(h.sanitizer.Sanitize(value)))
}

func (h *StudentHandler) stripMarkupOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := h.stripMarkup(*value)
	return &cleaned
}
