package handler

import (
	"errors"
	"fmt"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
	"medreminder/internal/interfaces/viewstate"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// ReminderController is the part of viewstate.Controller the handlers drive.
type ReminderController interface {
	State() viewstate.UIState
	Find(id uint) (entity.Reminder, bool)
	Insert(reminder entity.Reminder)
	Update(reminder entity.Reminder)
	Delete(reminder entity.Reminder)
	Acknowledge(reminder entity.Reminder) error
}

// ReminderHandler exposes the reminder list and its actions over HTTP.
// Writes are asynchronous and answered with 202 Accepted; the list
// reflects them once the store has applied them.
type ReminderHandler struct {
	ctrl ReminderController
	loc  *time.Location
	log  logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(ctrl ReminderController, loc *time.Location, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{ctrl: ctrl, loc: loc, log: log}
}

// List returns the current reminder list.
func (h *ReminderHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.ToReminderResponseList(h.ctrl.State().Data, h.loc))
}

// Get returns a single reminder.
func (h *ReminderHandler) Get(c echo.Context) error {
	reminder, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToReminderResponse(reminder, h.loc))
}

// Create validates the entry form and inserts a new reminder.
func (h *ReminderHandler) Create(c echo.Context) error {
	var req dto.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "malformed request body"})
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		h.log.Debug(fmt.Sprintf("Rejected reminder entry: %v", err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}

	h.ctrl.Insert(req.ToEntity())
	return c.NoContent(http.StatusAccepted)
}

// Update replaces a stored reminder.
func (h *ReminderHandler) Update(c echo.Context) error {
	current, err := h.lookup(c)
	if err != nil {
		return err
	}

	var req dto.UpdateReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "malformed request body"})
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}

	h.ctrl.Update(req.ToEntity(current.ID))
	return c.NoContent(http.StatusAccepted)
}

// Delete cancels the alarm of a reminder and removes it. Unknown IDs are
// accepted; deleting them changes nothing.
func (h *ReminderHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}
	reminder, ok := h.ctrl.Find(id)
	if !ok {
		reminder = entity.Reminder{ID: id}
	}
	h.ctrl.Delete(reminder)
	return c.NoContent(http.StatusAccepted)
}

// Taken acknowledges a recurring reminder.
func (h *ReminderHandler) Taken(c echo.Context) error {
	reminder, err := h.lookup(c)
	if err != nil {
		return err
	}
	if err := h.ctrl.Acknowledge(reminder); err != nil {
		if errors.Is(err, appErrors.ErrNotRecurring) {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		}
		h.log.Error(fmt.Sprintf("Failed to acknowledge reminder %d", reminder.ID), err)
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: appErrors.ErrInternalServer.Error()})
	}
	return c.NoContent(http.StatusAccepted)
}

// lookup resolves :id against the current state.
func (h *ReminderHandler) lookup(c echo.Context) (entity.Reminder, error) {
	id, err := parseID(c)
	if err != nil {
		return entity.Reminder{}, echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	}
	reminder, ok := h.ctrl.Find(id)
	if !ok {
		return entity.Reminder{}, echo.NewHTTPError(http.StatusNotFound, dto.ErrorResponse{Message: appErrors.ErrReminderNotFound.Error()})
	}
	return reminder, nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid reminder id %q", c.Param("id"))
	}
	return uint(id), nil
}
