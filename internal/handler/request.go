package handler

import (
	"net/http"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/pkg/auth"
	"github.com/labstack/echo/v4"
)

func (h *Handler) SubmitExtension(c echo.Context) error {
	var req model.SubmitExtensionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.MemberID = p.UserID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.requestSvc.SubmitExtension(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) SubmitRenewal(c echo.Context) error {
	var req model.SubmitRenewalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.MemberID = p.UserID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.requestSvc.SubmitRenewal(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) DecideExtension(c echo.Context) error {
	return h.decide(c, model.RequestKindExtension)
}

func (h *Handler) DecideRenewal(c echo.Context) error {
	return h.decide(c, model.RequestKindRenewal)
}

func (h *Handler) decide(c echo.Context, kind model.RequestKind) error {
	requestID := c.Param("requestId")
	if requestID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requestId is empty")
	}
	var req model.DecideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.RequestID = requestID
	req.LibrarianID = p.UserID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.requestSvc.Decide(c.Request().Context(), kind, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListExtensionRequests(c echo.Context) error {
	return h.listRequests(c, model.RequestKindExtension)
}

func (h *Handler) ListRenewalRequests(c echo.Context) error {
	return h.listRequests(c, model.RequestKindRenewal)
}

func (h *Handler) listRequests(c echo.Context, kind model.RequestKind) error {
	items, err := h.requestSvc.ListRequests(c.Request().Context(), kind, model.RequestStatus(c.QueryParam("status")))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
