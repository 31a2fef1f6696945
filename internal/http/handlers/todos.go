package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"todo_app/internal/domain"
	"todo_app/internal/service"

	"github.com/gin-gonic/gin"
)

// Legacy /todos surface: bare JSON bodies, string error messages.

type todoRequest struct {
	Title string `json:"title"`
}

func todoID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, fmt.Sprintf("Todo with id %s not found", idStr))
		return 0, false
	}
	return id, true
}

func writeTodoError(c *gin.Context, id int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, fmt.Sprintf("Todo with id %d not found", id))
		return
	}
	writeError(c, err)
}

func (h *Handler) ListTodos(c *gin.Context) {
	tasks, err := h.Tasks.ListTasks(c.Request.Context(), domain.TaskFilter{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	task, err := h.Tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		writeTodoError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	task, err := h.Tasks.CreateTask(c.Request.Context(), req.Title, "")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTodo replaces the title, as PUT /todos/{id} always did.
func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	task, err := h.Tasks.UpdateTask(c.Request.Context(), id, service.UpdateTaskInput{Title: &req.Title})
	if err != nil {
		writeTodoError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	if err := h.Tasks.DeleteTask(c.Request.Context(), id); err != nil {
		writeTodoError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}
