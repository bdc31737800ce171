package handler

import (
	"net/http"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/pkg/auth"
	"github.com/labstack/echo/v4"
)

func (h *Handler) IssueBook(c echo.Context) error {
	var req model.IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.IssuedBy = p.UserID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.borrowSvc.Issue(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	borrowID := c.Param("borrowId")
	if borrowID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "borrowId is empty")
	}
	res, err := h.borrowSvc.Return(c.Request().Context(), borrowID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RenewBook(c echo.Context) error {
	borrowID := c.Param("borrowId")
	if borrowID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "borrowId is empty")
	}
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	res, err := h.borrowSvc.Renew(c.Request().Context(), borrowID, p.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListBorrows(c echo.Context) error {
	page, size, err := pagingParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	records, err := h.borrowSvc.ListBorrows(c.Request().Context(),
		c.QueryParam("memberId"), model.BorrowStatus(c.QueryParam("status")), page, size)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) MyBorrows(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	page, size, err := pagingParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	records, err := h.borrowSvc.ListBorrows(c.Request().Context(),
		p.UserID, model.BorrowStatus(c.QueryParam("status")), page, size)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, records)
}
