package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/model"
)

// handleListTasks lists a project's tasks. Non-RM viewers only get tasks
// they are assigned to.
func (s *Server) handleListTasks(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	tasks, err := s.db.ListTasks(c.Request().Context(), p.ID)
	if err != nil {
		c.Logger().Error("list tasks:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	viewer := currentViewer(c)
	if !viewer.IsRMClass {
		scoped := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.IsAssignedTo(viewer.Email) {
				scoped = append(scoped, t)
			}
		}
		tasks = scoped
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleStartTask(c echo.Context) error {
	return s.taskAction(c, s.db.StartTask)
}

func (s *Server) handleCompleteTask(c echo.Context) error {
	return s.taskAction(c, s.db.CompleteTask)
}

// handleApproveTask is behind the admin middleware; approval is the one
// transition employees cannot make on their own tasks.
func (s *Server) handleApproveTask(c echo.Context) error {
	return s.taskAction(c, s.db.ApproveTask)
}

func (s *Server) handleHoldTask(c echo.Context) error {
	return s.taskAction(c, s.db.HoldTask)
}

func (s *Server) handleResumeTask(c echo.Context) error {
	return s.taskAction(c, s.db.ResumeTask)
}

// taskAction runs one status transition. Non-admin callers must be assigned
// to the task.
func (s *Server) taskAction(c echo.Context, action func(ctx context.Context, id string) (*model.Task, error)) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	task, err := s.db.GetTask(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return errJSON(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		c.Logger().Error("get task:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	user := currentUser(c)
	if !user.IsAdminClass() && !task.IsAssignedTo(user.Email) {
		return errJSON(c, http.StatusForbidden, "not assigned to this task")
	}

	task, err = action(ctx, id)
	if errors.Is(err, db.ErrInvalidTransition) {
		return errJSON(c, http.StatusConflict, err.Error())
	}
	if err != nil {
		c.Logger().Error("task action:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, task)
}

// handleAssignTask replaces a task's assignee list
func (s *Server) handleAssignTask(c echo.Context) error {
	var req struct {
		Assignees []string `json:"assignees"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	task, err := s.db.AssignTask(c.Request().Context(), c.Param("id"), req.Assignees)
	if errors.Is(err, sql.ErrNoRows) {
		return errJSON(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		c.Logger().Error("assign task:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, task)
}

// handleSetRequirement classifies a task as applicable, not applicable, or
// already completed.
func (s *Server) handleSetRequirement(c echo.Context) error {
	var req struct {
		Requirement string `json:"requirement"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	task, err := s.db.SetRequirement(c.Request().Context(), c.Param("id"), req.Requirement)
	if errors.Is(err, sql.ErrNoRows) {
		return errJSON(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, task)
}

// handleAddRemark appends a remark authored by the caller
func (s *Server) handleAddRemark(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Text == "" {
		return errJSON(c, http.StatusBadRequest, "text required")
	}

	user := currentUser(c)
	task, err := s.db.AddRemark(c.Request().Context(), c.Param("id"), model.Remark{
		AuthorName:  user.Name,
		AuthorEmail: user.Email,
		Text:        req.Text,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return errJSON(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		c.Logger().Error("add remark:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, task)
}
