package handler

import (
	"net/http"
	"strconv"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/pkg/auth"
	md "github.com/Adhi509/admin-librarian-portal/pkg/middleware"
	"github.com/Adhi509/admin-librarian-portal/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	catalogSvc CatalogService
	borrowSvc  BorrowService
	requestSvc RequestService
	notifySvc  NotifyService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, borrowSvc BorrowService, requestSvc RequestService, notifySvc NotifyService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		borrowSvc:  borrowSvc,
		requestSvc: requestSvc,
		notifySvc:  notifySvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)
	staff := api.Group("", md.RequireRoles(auth.RoleAdmin, auth.RoleLibrarian))
	admin := api.Group("", md.RequireRoles(auth.RoleAdmin))

	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.GET("/categories", h.ListCategories)
	staff.POST("/books", h.CreateBook)
	staff.PUT("/books/:bookId", h.UpdateBook)
	staff.DELETE("/books/:bookId", h.DeleteBook)

	api.GET("/plans", h.ListPlans)
	admin.POST("/plans", h.CreatePlan)
	staff.GET("/members", h.ListMembers)
	staff.GET("/members/:memberId", h.GetMember)

	staff.POST("/borrows", h.IssueBook)
	staff.POST("/borrows/:borrowId/return", h.ReturnBook)
	staff.GET("/borrows", h.ListBorrows)
	api.POST("/borrows/:borrowId/renew", h.RenewBook)
	api.GET("/borrows/my", h.MyBorrows)

	api.POST("/requests/extension", h.SubmitExtension)
	api.POST("/requests/renewal", h.SubmitRenewal)
	staff.GET("/requests/extension", h.ListExtensionRequests)
	staff.GET("/requests/renewal", h.ListRenewalRequests)
	staff.POST("/requests/extension/:requestId/decision", h.DecideExtension)
	staff.POST("/requests/renewal/:requestId/decision", h.DecideRenewal)

	api.GET("/notifications", h.ListNotifications)
	api.PATCH("/notifications/:notificationId/read", h.MarkNotificationRead)
	api.DELETE("/notifications/:notificationId", h.DeleteNotification)
	staff.POST("/notifications/sweep", h.RunSweep)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// toHTTPError maps domain errors onto response statuses: precondition
// failures are 400, missing or already-resolved targets 404, duplicate
// pending requests 409, anything else 500.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyPending):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrLimitExceeded),
		errors.Is(err, errs.ErrRenewalLimit),
		errors.Is(err, errs.ErrAlreadyOverdue),
		errors.Is(err, errs.ErrInvalidRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func pagingParams(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}
