package apiv1

import (
	"recruit-pipeline-backend/controllers"
	taskdefinitionhandler "recruit-pipeline-backend/lib/task-definition"
	apimodels "recruit-pipeline-backend/models/api"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"

	"github.com/gofiber/fiber/v2"
)

type taskApiController struct {
	controllers.BaseAPIController
}

func InitTaskApiRouters(app *fiber.App) {
	controller := taskApiController{}
	app.Route("stage/:id/task", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Put("change_order", controller.changeOrder)
	})
	app.Route("task/:id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Put("", controller.update)
		idRoute.Delete("", controller.delete)
		idRoute.Post("duplicate", controller.duplicate)
	})
}

// @Summary Задачи этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param   include_inactive	query		bool	false	"Включая неактивные"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.TaskDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/task [get]
func (c *taskApiController) list(ctx *fiber.Ctx) error {
	stageID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := taskdefinitionhandler.Instance.ListForStage(stageID, ctx.QueryBool("include_inactive", false))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задач этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание задачи этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.TaskDefinitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TaskDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/task [post]
func (c *taskApiController) create(ctx *fiber.Ctx) error {
	stageID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TaskDefinitionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := taskdefinitionhandler.Instance.Create(stageID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания задачи этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Порядок задач этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "stage ID"
// @Param	body body	 pipelineapimodels.OrderData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/stage/{id}/task/change_order [put]
func (c *taskApiController) changeOrder(ctx *fiber.Ctx) error {
	stageID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.OrderData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = taskdefinitionhandler.Instance.Reorder(stageID, payload.Items); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения порядка задач")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Задача этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "task ID"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TaskDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/task/{id} [get]
func (c *taskApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := taskdefinitionhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Изменение задачи этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "task ID"
// @Param	body body	 pipelineapimodels.TaskDefinitionUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/task/{id} [put]
func (c *taskApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TaskDefinitionUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = taskdefinitionhandler.Instance.Update(id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление задачи этапа
// @Tags Задачи этапов
// @Description Задача деактивируется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "task ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/task/{id} [delete]
func (c *taskApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = taskdefinitionhandler.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Копия задачи этапа
// @Tags Задачи этапов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "task ID"
// @Param	body body	 pipelineapimodels.TaskDuplicateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TaskDefinitionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/task/{id}/duplicate [post]
func (c *taskApiController) duplicate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TaskDuplicateData
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	view, err := taskdefinitionhandler.Instance.Duplicate(id, payload.NewName)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка копирования задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
