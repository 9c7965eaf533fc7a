package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"todo-api/middlewares"
	"todo-api/models"
	"todo-api/services"
	"todo-api/utils"
)

const (
	MsgTaskCreated = "Task created successfully"
	MsgTaskUpdated = "Task updated successfully"
)

// TaskHandler serves the /api/tasks routes.
type TaskHandler struct {
	service *services.TaskService
	errs    *utils.ErrorWriter
}

func NewTaskHandler(service *services.TaskService, errs *utils.ErrorWriter) *TaskHandler {
	return &TaskHandler{service: service, errs: errs}
}

// GetTasks godoc
// @Summary      List tasks
// @Description  Returns every task, newest first
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  utils.Envelope{data=[]models.Task}
// @Failure      500  {object}  utils.Envelope
// @Router       /api/tasks [get]
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GetAllTasks(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, tasks, "")
}

// GetTaskStats godoc
// @Summary      Task statistics
// @Description  Counts total, completed and pending tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  utils.Envelope{data=models.TaskStats}
// @Failure      500  {object}  utils.Envelope
// @Router       /api/tasks/stats [get]
func (h *TaskHandler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetTaskStats(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, stats, "")
}

// GetCompletedTasks godoc
// @Summary      List completed tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  utils.Envelope{data=[]models.Task}
// @Failure      500  {object}  utils.Envelope
// @Router       /api/tasks/completed [get]
func (h *TaskHandler) GetCompletedTasks(w http.ResponseWriter, r *http.Request) {
	h.tasksByStatus(w, r, true)
}

// GetPendingTasks godoc
// @Summary      List pending tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  utils.Envelope{data=[]models.Task}
// @Failure      500  {object}  utils.Envelope
// @Router       /api/tasks/pending [get]
func (h *TaskHandler) GetPendingTasks(w http.ResponseWriter, r *http.Request) {
	h.tasksByStatus(w, r, false)
}

func (h *TaskHandler) tasksByStatus(w http.ResponseWriter, r *http.Request, completed bool) {
	tasks, err := h.service.GetTasksByStatus(r.Context(), completed)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, tasks, "")
}

// CreateTask godoc
// @Summary      Create a new task
// @Description  Adds a task to the database
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task  body      models.CreateTaskInput  true  "Task to create"
// @Success      201   {object}  utils.Envelope{data=models.Task}
// @Failure      400   {object}  utils.Envelope
// @Failure      500   {object}  utils.Envelope
// @Router       /api/tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	in, _ := middlewares.Body[models.CreateTaskInput](r)

	task, err := h.service.CreateTask(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendCreated(w, task, MsgTaskCreated)
}

// GetTaskByID godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  utils.Envelope{data=models.Task}
// @Failure      400  {object}  utils.Envelope
// @Failure      404  {object}  utils.Envelope
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.service.GetTaskByID(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if task == nil {
		h.errs.Write(w, r, models.ErrNotFound)
		return
	}
	utils.SendSuccess(w, http.StatusOK, task, "")
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Applies a partial update; absent fields are left unchanged
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Task ID"
// @Param        task  body      models.UpdateTaskInput  true  "Fields to change"
// @Success      200   {object}  utils.Envelope{data=models.Task}
// @Failure      400   {object}  utils.Envelope
// @Failure      404   {object}  utils.Envelope
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	in, _ := middlewares.Body[models.UpdateTaskInput](r)

	task, err := h.service.UpdateTask(r.Context(), id, in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, task, MsgTaskUpdated)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      400  {object}  utils.Envelope
// @Failure      404  {object}  utils.Envelope
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendNoContent(w)
}

// ToggleTask godoc
// @Summary      Toggle task completion
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  utils.Envelope{data=models.Task}
// @Failure      400  {object}  utils.Envelope
// @Failure      404  {object}  utils.Envelope
// @Router       /api/tasks/{id}/toggle [patch]
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.service.ToggleTaskCompletion(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, task, "")
}
