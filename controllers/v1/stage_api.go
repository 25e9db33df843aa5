package apiv1

import (
	"recruit-pipeline-backend/controllers"
	pipelinereport "recruit-pipeline-backend/lib/pipeline-report"
	stagedefinitionhandler "recruit-pipeline-backend/lib/stage-definition"
	statusdefinitionhandler "recruit-pipeline-backend/lib/status-definition"
	apimodels "recruit-pipeline-backend/models/api"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"

	"github.com/gofiber/fiber/v2"
)

type stageApiController struct {
	controllers.BaseAPIController
}

func InitStageApiRouters(app *fiber.App) {
	controller := stageApiController{}
	app.Route("stage", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Put("change_order", controller.changeOrder)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("report", controller.report)
			idRoute.Route("status", func(statusRoute fiber.Router) {
				statusRoute.Get("", controller.statusList)
				statusRoute.Post("", controller.statusCreate)
				statusRoute.Post("template", controller.statusFromTemplate)
				statusRoute.Put("change_order", controller.statusChangeOrder)
				statusRoute.Put(":status_id", controller.statusUpdate)
				statusRoute.Delete(":status_id", controller.statusDelete)
			})
		})
	})
}

// @Summary Список этапов
// @Tags Этапы подбора
// @Description Список этапов подбора в порядке sort_order
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   active_only			query		bool	false	"Только активные"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.StageDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage [get]
func (c *stageApiController) list(ctx *fiber.Ctx) error {
	var (
		list []pipelineapimodels.StageDefinitionView
		err  error
	)
	if ctx.QueryBool("active_only", false) {
		list, err = stagedefinitionhandler.Instance.ListActive()
	} else {
		list, err = stagedefinitionhandler.Instance.ListAll()
	}
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание этапа
// @Tags Этапы подбора
// @Description Создание этапа подбора. Шаблон статусов определяется по имени и группе этапа, если не указан
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 pipelineapimodels.StageDefinitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage [post]
func (c *stageApiController) create(ctx *fiber.Ctx) error {
	var payload pipelineapimodels.StageDefinitionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := stagedefinitionhandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Порядок этапов
// @Tags Этапы подбора
// @Description Изменение порядка этапов, все изменения применяются одной транзакцией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 pipelineapimodels.OrderData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/change_order [put]
func (c *stageApiController) changeOrder(ctx *fiber.Ctx) error {
	var payload pipelineapimodels.OrderData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := stagedefinitionhandler.Instance.Reorder(payload.Items); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения порядка этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Этап
// @Tags Этапы подбора
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StageDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id} [get]
func (c *stageApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := stagedefinitionhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Изменение этапа
// @Tags Этапы подбора
// @Description Частичное изменение этапа. При передаче config_version изменение применяется только к этой версии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.StageDefinitionUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id} [put]
func (c *stageApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.StageDefinitionUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = stagedefinitionhandler.Instance.Update(id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление этапа
// @Tags Этапы подбора
// @Description Этап деактивируется, история прохождения сохраняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id} [delete]
func (c *stageApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = stagedefinitionhandler.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отчет по этапу
// @Tags Этапы подбора
// @Description Выгрузка в xlsx кандидатов, проходивших этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/report [get]
func (c *stageApiController) report(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, err := pipelinereport.Instance.StageReport(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки отчета по этапу")
	}
	ctx.Attachment("stage_report.xlsx")
	return ctx.Status(fiber.StatusOK).SendStream(buf)
}

// @Summary Статусы этапа
// @Tags Статусы этапов
// @Description Статусы этапа в порядке sort_order. Если статусы не настроены, возвращается набор по умолчанию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param   include_inactive	query		bool	false	"Включая неактивные"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.StatusDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status [get]
func (c *stageApiController) statusList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := statusdefinitionhandler.Instance.ListForStage(id, ctx.QueryBool("include_inactive", false))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения статусов этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание статуса этапа
// @Tags Статусы этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.StatusDefinitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.StatusDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status [post]
func (c *stageApiController) statusCreate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.StatusDefinitionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := statusdefinitionhandler.Instance.Create(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания статуса этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Статусы этапа по шаблону
// @Tags Статусы этапов
// @Description Создание статусов этапа по шаблону (event, interview, document, final, default)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.StatusTemplateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.StatusDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status/template [post]
func (c *stageApiController) statusFromTemplate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.StatusTemplateData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, err := statusdefinitionhandler.Instance.CreateFromTemplate(payload.TemplateKey, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания статусов по шаблону")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Порядок статусов этапа
// @Tags Статусы этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.OrderData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status/change_order [put]
func (c *stageApiController) statusChangeOrder(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.OrderData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = statusdefinitionhandler.Instance.Reorder(id, payload.Items); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения порядка статусов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Изменение статуса этапа
// @Tags Статусы этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param   status_id      		path    string  				    	true         "status ID"
// @Param	body body	 pipelineapimodels.StatusDefinitionUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status/{status_id} [put]
func (c *stageApiController) statusUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	statusID, err := c.GetParam(ctx, "status_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.StatusDefinitionUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = statusdefinitionhandler.Instance.Update(id, statusID, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения статуса этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление статуса этапа
// @Tags Статусы этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param   status_id      		path    string  				    	true         "status ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/status/{status_id} [delete]
func (c *stageApiController) statusDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	statusID, err := c.GetParam(ctx, "status_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = statusdefinitionhandler.Instance.Delete(id, statusID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления статуса этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
