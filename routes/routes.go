package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"todo-api/handlers"
	"todo-api/middlewares"
	"todo-api/models"
	"todo-api/utils"
)

// RegisterRoutes sets up all routes for the application. The literal
// /api/tasks paths must stay ahead of the {id} subrouter.
func RegisterRoutes(router *mux.Router, tasks *handlers.TaskHandler, store handlers.Pinger, errs *utils.ErrorWriter) {
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", handlers.Ready(store, errs)).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	validCreate := middlewares.ValidateBody(errs, middlewares.CreateTaskSchema, models.ValidateCreate)
	validUpdate := middlewares.ValidateBody(errs, middlewares.UpdateTaskSchema, models.ValidateUpdate)

	api := router.PathPrefix("/api/tasks").Subrouter()
	api.HandleFunc("", tasks.GetTasks).Methods(http.MethodGet)
	api.Handle("", validCreate(http.HandlerFunc(tasks.CreateTask))).Methods(http.MethodPost)
	api.HandleFunc("/stats", tasks.GetTaskStats).Methods(http.MethodGet)
	api.HandleFunc("/completed", tasks.GetCompletedTasks).Methods(http.MethodGet)
	api.HandleFunc("/pending", tasks.GetPendingTasks).Methods(http.MethodGet)

	byID := api.PathPrefix("/{id}").Subrouter()
	byID.Use(middlewares.ValidateTaskID(errs))
	byID.HandleFunc("", tasks.GetTaskByID).Methods(http.MethodGet)
	byID.Handle("", validUpdate(http.HandlerFunc(tasks.UpdateTask))).Methods(http.MethodPut)
	byID.HandleFunc("", tasks.DeleteTask).Methods(http.MethodDelete)
	byID.HandleFunc("/toggle", tasks.ToggleTask).Methods(http.MethodPatch)
}
