package apiv1

import (
	"recruit-pipeline-backend/controllers"
	transitionrulehandler "recruit-pipeline-backend/lib/transition-rule"
	apimodels "recruit-pipeline-backend/models/api"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"

	"github.com/gofiber/fiber/v2"
)

type ruleApiController struct {
	controllers.BaseAPIController
}

func InitRuleApiRouters(app *fiber.App) {
	controller := ruleApiController{}
	app.Route("rule", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("integrity", controller.integrity)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Правила перехода между этапами
// @Tags Правила перехода
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.TransitionRuleView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/rule [get]
func (c *ruleApiController) list(ctx *fiber.Ctx) error {
	list, err := transitionrulehandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения правил перехода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание правила перехода
// @Tags Правила перехода
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 pipelineapimodels.TransitionRuleData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TransitionRuleView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/rule [post]
func (c *ruleApiController) create(ctx *fiber.Ctx) error {
	var payload pipelineapimodels.TransitionRuleData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := transitionrulehandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания правила перехода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Проверка дублей правил перехода
// @Tags Правила перехода
// @Description Пары этапов, для которых задано больше одного правила
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.DuplicateRules}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/rule/integrity [get]
func (c *ruleApiController) integrity(ctx *fiber.Ctx) error {
	list, err := transitionrulehandler.Instance.IntegrityCheck()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки правил перехода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Удаление правила перехода
// @Tags Правила перехода
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rule ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/rule/{id} [delete]
func (c *ruleApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = transitionrulehandler.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления правила перехода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
