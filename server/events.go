package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
)

// handleEvents returns a project's change feed after a sequence number.
// Clients poll with their last seen seq and fold the result with the feed
// reducer; non-RM viewers get events pre-scoped to their assignments.
func (s *Server) handleEvents(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}

	after := int64(0)
	if q := c.QueryParam("after"); q != "" {
		after, err = strconv.ParseInt(q, 10, 64)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "invalid after")
		}
	}

	events, err := s.db.EventsAfter(c.Request().Context(), p.ID, after)
	if err != nil {
		c.Logger().Error("list events:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	viewer := currentViewer(c)
	if !viewer.IsRMClass {
		events = scopeEvents(events, viewer)
	}
	if events == nil {
		events = []feed.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// scopeEvents strips task payloads a non-RM viewer may not see. An update
// that unassigns the viewer is downgraded to a delete so the client's
// snapshot drops the task.
func scopeEvents(events []feed.Event, viewer model.Viewer) []feed.Event {
	out := make([]feed.Event, 0, len(events))
	for _, ev := range events {
		switch ev.Type {
		case feed.EventInsert:
			if ev.Task != nil && ev.Task.IsAssignedTo(viewer.Email) {
				out = append(out, ev)
			}
		case feed.EventUpdate:
			if ev.Task != nil && ev.Task.IsAssignedTo(viewer.Email) {
				out = append(out, ev)
			} else {
				out = append(out, feed.Event{Seq: ev.Seq, Type: feed.EventDelete, TaskID: ev.TaskID})
			}
		default:
			out = append(out, ev)
		}
	}
	return out
}
