package apiv1

import (
	"bytes"
	"io"
	"recruit-pipeline-backend/controllers"
	"recruit-pipeline-backend/lib/applicant"
	taskinstancehandler "recruit-pipeline-backend/lib/task-instance"
	"recruit-pipeline-backend/middleware"
	apimodels "recruit-pipeline-backend/models/api"
	applicantapimodels "recruit-pipeline-backend/models/api/applicant"
	pipelineapimodels "recruit-pipeline-backend/models/api/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type applicantApiController struct {
	controllers.BaseAPIController
}

func InitApplicantApiRouters(app *fiber.App) {
	controller := applicantApiController{}
	app.Route("applicant", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("stage/:stage_id/task", controller.stageTasks)
			idRoute.Route("task/:task_id", func(taskRoute fiber.Router) {
				taskRoute.Put("", controller.updateTask)
				taskRoute.Post("email", controller.sendTaskEmail)
				taskRoute.Get("document", controller.documentList)
				taskRoute.Post("document", controller.uploadDocument)
			})
		})
	})
	app.Route("document/:id", func(router fiber.Router) {
		router.Get("", controller.downloadDocument)
		router.Delete("", controller.deleteDocument)
	})
}

// @Summary Список кандидатов
// @Tags Кандидат
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   search				query		string	false	"Поиск по ФИО, телефону, email"
// @Success 200 {object} apimodels.Response{data=[]applicantapimodels.ApplicantView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant [get]
func (c *applicantApiController) list(ctx *fiber.Ctx) error {
	list, err := applicant.Instance.List(ctx.Query("search"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка кандидатов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание кандидата
// @Tags Кандидат
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applicantapimodels.ApplicantData	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.ApplicantView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant [post]
func (c *applicantApiController) create(ctx *fiber.Ctx) error {
	var payload applicantapimodels.ApplicantData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := applicant.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Кандидат
// @Tags Кандидат
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.ApplicantView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id} [get]
func (c *applicantApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := applicant.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Задачи кандидата по этапу
// @Tags Задачи кандидата
// @Description Все активные задачи этапа вместе с состоянием по кандидату. Несохраненные задачи возвращаются с is_virtual=true
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   stage_id       		path    string  				    	true         "stage ID"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.ApplicantTaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/stage/{stage_id}/task [get]
func (c *applicantApiController) stageTasks(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	stageID, err := c.GetParam(ctx, "stage_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := taskinstancehandler.Instance.GetTasksForApplicantStage(id, stageID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задач кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Изменение задачи кандидата
// @Tags Задачи кандидата
// @Description Изменение статуса, комментария или срока. При первом изменении задача сохраняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   task_id        		path    string  				    	true         "task ID"
// @Param	body body	 pipelineapimodels.TaskInstanceUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.ApplicantTaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/task/{task_id} [put]
func (c *applicantApiController) updateTask(ctx *fiber.Ctx) error {
	id, taskID, err := c.getApplicantTask(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TaskInstanceUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := taskinstancehandler.Instance.UpdateTaskInstance(id, taskID, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения задачи кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Письмо кандидату по задаче
// @Tags Задачи кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   task_id        		path    string  				    	true         "task ID"
// @Param	body body	 pipelineapimodels.TaskEmailData	true	"request body"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.TaskEmailResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/task/{task_id}/email [post]
func (c *applicantApiController) sendTaskEmail(ctx *fiber.Ctx) error {
	id, taskID, err := c.getApplicantTask(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload pipelineapimodels.TaskEmailData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := taskinstancehandler.Instance.SendTaskEmail(id, taskID, payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки письма кандидату")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Документы кандидата по задаче
// @Tags Задачи кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   task_id        		path    string  				    	true         "task ID"
// @Success 200 {object} apimodels.Response{data=[]pipelineapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/task/{task_id}/document [get]
func (c *applicantApiController) documentList(ctx *fiber.Ctx) error {
	id, taskID, err := c.getApplicantTask(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := taskinstancehandler.Instance.ListTaskDocuments(id, taskID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документов кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Загрузка документа кандидата
// @Tags Задачи кандидата
// @Description Документ сохраняется в хранилище, задача кандидата переходит в статус submitted
// @Accept  multipart/form-data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "applicant ID"
// @Param   task_id        		path    string  				    	true         "task ID"
// @Param   file				formData	file	true	"document file"
// @Success 200 {object} apimodels.Response{data=pipelineapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/applicant/{id}/task/{task_id}/document [post]
func (c *applicantApiController) uploadDocument(ctx *fiber.Ctx) error {
	id, taskID, err := c.getApplicantTask(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := c.readFormFile(ctx, "file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := taskinstancehandler.Instance.UploadTaskDocument(ctx.UserContext(), id, taskID, file, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки документа кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Скачивание документа
// @Tags Задачи кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/document/{id} [get]
func (c *applicantApiController) downloadDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, data, err := taskinstancehandler.Instance.GetTaskDocument(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	ctx.Attachment(view.Name)
	if view.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, view.ContentType)
	}
	return ctx.Status(fiber.StatusOK).SendStream(bytes.NewReader(data))
}

// @Summary Удаление документа
// @Tags Задачи кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/pipeline/document/{id} [delete]
func (c *applicantApiController) deleteDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = taskinstancehandler.Instance.DeleteTaskDocument(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

func (c *applicantApiController) getApplicantTask(ctx *fiber.Ctx) (applicantID, taskID string, err error) {
	applicantID, err = c.GetID(ctx)
	if err != nil {
		return "", "", err
	}
	taskID, err = c.GetParam(ctx, "task_id")
	if err != nil {
		return "", "", err
	}
	return applicantID, taskID, nil
}

func (c *applicantApiController) readFormFile(ctx *fiber.Ctx, field string) (pipelineapimodels.DocumentFile, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return pipelineapimodels.DocumentFile{}, errors.New("не удалось получить файл из запроса")
	}
	file, err := header.Open()
	if err != nil {
		return pipelineapimodels.DocumentFile{}, errors.New("не удалось прочитать файл из запроса")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return pipelineapimodels.DocumentFile{}, errors.New("не удалось прочитать файл из запроса")
	}
	return pipelineapimodels.DocumentFile{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
