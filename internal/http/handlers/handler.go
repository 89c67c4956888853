package handlers

import (
	"realtime_kanban/internal/service"
)

// Handler serves the task REST API.
type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}
