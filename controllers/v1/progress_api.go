package apiv1

import (
	"recruit-pipeline-backend/controllers"
	pipelinereport "recruit-pipeline-backend/lib/pipeline-report"
	stageprogresshandler "recruit-pipeline-backend/lib/stage-progress"
	transitionrulehandler "recruit-pipeline-backend/lib/transition-rule"
	"recruit-pipeline-backend/middleware"
	apimodels "recruit-pipeline-backend/models/api"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"

	"github.com/gofiber/fiber/v2"
)

type progressApiController struct {
	controllers.BaseAPIController
}

func InitProgressApiRouters(app *fiber.App) {
	controller := progressApiController{}
	app.Route("applicant/:id/progress", func(router fiber.Router) {
		router.Get("", controller.history)
		router.Get("current", controller.current)
		router.Get("sheet", controller.sheet)
		router.Get("check_transition", controller.checkTransition)
		router.Post("start", controller.start)
		router.Post("complete", controller.complete)
		router.Post("skip", controller.skip)
		router.Post("fail", controller.fail)
		router.Post("advance", controller.advance)
		router.Post("transition", controller.transition)
	})
}

// @Summary История этапов кандидата
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress [get]
func (c *progressApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := stageprogresshandler.Instance.History(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории этапов кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Текущий этап кандидата
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/current [get]
func (c *progressApiController) current(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := stageprogresshandler.Instance.Current(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения текущего этапа кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Лист прохождения этапов кандидатом
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/sheet [get]
func (c *progressApiController) sheet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := pipelinereport.Instance.ProgressSheet(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа этапов кандидата")
	}
	ctx.Attachment("progress_sheet.pdf")
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Проверка возможности перехода
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   from_stage_id		query	string	true	"исходный этап"
// @Param   to_stage_id			query	string	true	"целевой этап"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TransitionCheck}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/check_transition [get]
func (c *progressApiController) checkTransition(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload := pipelineapimodels.TransitionData{
		FromStageID: ctx.Query("from_stage_id"),
		ToStageID:   ctx.Query("to_stage_id"),
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	result, err := transitionrulehandler.Instance.CheckTransitionConditions(id, payload.FromStageID, payload.ToStageID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки условий перехода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Начать этап
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.StageActionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/start [post]
func (c *progressApiController) start(ctx *fiber.Ctx) error {
	id, payload, err := c.getAction(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := stageprogresshandler.Instance.StartStage(id, payload.StageID, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка начала этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Завершить этап
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.StageActionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/complete [post]
func (c *progressApiController) complete(ctx *fiber.Ctx) error {
	id, payload, err := c.getAction(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := stageprogresshandler.Instance.CompleteStage(id, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка завершения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Пропустить этап
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.StageActionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/skip [post]
func (c *progressApiController) skip(ctx *fiber.Ctx) error {
	id, payload, err := c.getAction(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := stageprogresshandler.Instance.SkipStage(id, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка пропуска этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Этап не пройден
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.StageActionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/fail [post]
func (c *progressApiController) fail(ctx *fiber.Ctx) error {
	id, payload, err := c.getAction(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := stageprogresshandler.Instance.FailStage(id, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Перейти на следующий этап
// @Tags Этапы кандидата
// @Description Завершает текущий этап и начинает следующий активный этап. Если следующего этапа нет, data пустое
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.StageActionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageProgressView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/advance [post]
func (c *progressApiController) advance(ctx *fiber.Ctx) error {
	id, payload, err := c.getAction(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := stageprogresshandler.Instance.AdvanceToNextStage(id, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка перехода на следующий этап")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Переход между этапами по правилам
// @Tags Этапы кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param	body body	 pipelineapimodels.TransitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TransitionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/progress/transition [post]
func (c *progressApiController) transition(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TransitionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := stageprogresshandler.Instance.TransitionTo(id, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка перехода между этапами")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

func (c *progressApiController) getAction(ctx *fiber.Ctx) (string, pipelineapimodels.StageActionData, error) {
	var payload pipelineapimodels.StageActionData
	id, err := c.GetID(ctx)
	if err != nil {
		return "", payload, err
	}
	if err = c.BodyParser(ctx, &payload); err != nil {
		return "", payload, err
	}
	if err = payload.Validate(); err != nil {
		return "", payload, err
	}
	return id, payload, nil
}
