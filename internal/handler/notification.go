package handler

import (
	"net/http"
	"time"

	"github.com/Adhi509/admin-librarian-portal/pkg/auth"
	"github.com/labstack/echo/v4"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.notifySvc.Notifications(c.Request().Context(), p.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.notifySvc.MarkRead(c.Request().Context(), p.UserID, c.Param("notificationId")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.notifySvc.Delete(c.Request().Context(), p.UserID, c.Param("notificationId")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RunSweep(c echo.Context) error {
	res, err := h.notifySvc.Sweep(c.Request().Context(), time.Now())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}
