package controllers

import (
	"recruit-pipeline-backend/lib/errs"
	"recruit-pipeline-backend/middleware"
	apimodels "recruit-pipeline-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParam(ctx, "id")
}

// GetParam идентификатор из пути запроса, должен быть uuid
func (c *BaseAPIController) GetParam(ctx *fiber.Ctx, name string) (string, error) {
	value := ctx.Params(name)
	if value == "" {
		return "", errors.Errorf("не указан параметр %v", name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", errors.Errorf("некорректный параметр %v", name)
	}
	return value, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError ответ с кодом, соответствующим типу ошибки. Текст ошибок хранилища клиенту не отдается.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		conflictErr   *errs.ConflictError
		ruleErr       *errs.RuleEvaluationError
	)
	switch {
	case errors.As(err, &validationErr):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewValidationError(validationErr.Messages))
	case errors.As(err, &notFoundErr):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(notFoundErr.Error()))
	case errors.As(err, &conflictErr):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(conflictErr.Error()))
	case errors.As(err, &ruleErr):
		logger.WithError(err).Warn(message)
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(apimodels.NewError(ruleErr.Error()))
	}
	logger.WithError(err).Error(message)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(message))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewValidationError(validationErr.Messages))
	}
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
}
