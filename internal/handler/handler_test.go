package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/handler"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/pkg/auth"
	"github.com/Adhi509/admin-librarian-portal/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Adhi509/admin-librarian-portal/internal/handler/mocks"
)

const (
	staffID  = "6f1d0a1e-9a3b-4f5c-8d2e-1b2c3d4e5f60"
	memberID = "83575e12-7ce0-48ee-9931-51919ff3c9ee"
	bookID   = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
	borrowID = "9d9e6a4f-0b1c-4d2e-8f3a-5b6c7d8e9f01"
	reqID    = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

func withPrincipal(p auth.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

type mocks struct {
	catalog *service_mocks.MockCatalogService
	borrow  *service_mocks.MockBorrowService
	request *service_mocks.MockRequestService
	notify  *service_mocks.MockNotifyService
}

func newHandler(t *testing.T) (*handler.Handler, mocks) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	m := mocks{
		catalog: service_mocks.NewMockCatalogService(c),
		borrow:  service_mocks.NewMockBorrowService(c),
		request: service_mocks.NewMockRequestService(c),
		notify:  service_mocks.NewMockNotifyService(c),
	}
	log := zap.NewExample().Named("test")
	return handler.New(m.catalog, m.borrow, m.request, m.notify, log), m
}

func TestHandler_IssueBook(t *testing.T) {
	t.Parallel()

	issueDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	issued := model.BorrowRecord{
		ID:           borrowID,
		BookID:       bookID,
		MemberID:     memberID,
		IssuedBy:     staffID,
		IssueDate:    issueDate,
		DueDate:      issueDate.AddDate(0, 0, 14),
		Status:       model.BorrowStatusIssued,
		RenewalCount: 0,
		MaxRenewals:  2,
	}

	type mockBehavior func(m mocks)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"bookId":"` + bookID + `","memberId":"` + memberID + `","lendingDays":14}`,
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Issue(gomock.Any(), model.IssueBookRequest{
						BookID:      bookID,
						MemberID:    memberID,
						LendingDays: 14,
						IssuedBy:    staffID,
					}).
					Return(issued, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "out of stock",
			body: `{"bookId":"` + bookID + `","memberId":"` + memberID + `"}`,
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Issue(gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrOutOfStock)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"no copies available"}`,
		},
		{
			name: "borrow limit reached",
			body: `{"bookId":"` + bookID + `","memberId":"` + memberID + `"}`,
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Issue(gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrLimitExceeded)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"member has reached the borrow limit"}`,
		},
		{
			name:         "invalid member id",
			body:         `{"bookId":"` + bookID + `","memberId":"not-a-uuid"}`,
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m := newHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrows", h.IssueBook, withPrincipal(auth.Principal{UserID: staffID, Roles: []auth.Role{auth.RoleLibrarian}}))

			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/borrows", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if tt.name == "ok" {
				require.JSONEq(t, mustJSON(t, issued), w.Body.String())
			}
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()

	returnDate := time.Date(2024, 3, 17, 15, 0, 0, 0, time.UTC)

	type mockBehavior func(m mocks)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok with fine",
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Return(gomock.Any(), borrowID).
					Return(model.ReturnResult{Success: true, FineAmount: 10, ReturnDate: returnDate}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"fineAmount":10,"returnDate":"2024-03-17T15:00:00Z"}`,
		},
		{
			name: "already returned",
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Return(gomock.Any(), borrowID).
					Return(model.ReturnResult{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"not found"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m := newHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrows/:borrowId/return", h.ReturnBook, withPrincipal(auth.Principal{UserID: staffID, Roles: []auth.Role{auth.RoleLibrarian}}))

			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/borrows/"+borrowID+"/return", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_RenewBook(t *testing.T) {
	t.Parallel()

	newDue := time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC)

	type mockBehavior func(m mocks)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Renew(gomock.Any(), borrowID, memberID).
					Return(model.RenewResult{Success: true, NewDueDate: newDue, RenewalsRemaining: 1}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"newDueDate":"2024-03-29T10:00:00Z","renewalsRemaining":1}`,
		},
		{
			name: "renewal limit reached",
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Renew(gomock.Any(), borrowID, memberID).
					Return(model.RenewResult{}, errs.ErrRenewalLimit)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"maximum renewals reached"}`,
		},
		{
			name: "overdue",
			mockBehavior: func(m mocks) {
				m.borrow.EXPECT().
					Renew(gomock.Any(), borrowID, memberID).
					Return(model.RenewResult{}, errs.ErrAlreadyOverdue)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"record is overdue"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m := newHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrows/:borrowId/renew", h.RenewBook, withPrincipal(auth.Principal{UserID: memberID, Roles: []auth.Role{auth.RoleMember}}))

			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/borrows/"+borrowID+"/renew", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_SubmitExtension(t *testing.T) {
	t.Parallel()

	created := model.LendingRequest{
		ID:             reqID,
		Kind:           model.RequestKindExtension,
		BorrowRecordID: borrowID,
		MemberID:       memberID,
		RequestedDays:  5,
		Reason:         "travel",
		Status:         model.RequestStatusPending,
		CreatedAt:      time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
	}

	type mockBehavior func(m mocks)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"borrowRecordId":"` + borrowID + `","requestedDays":5,"reason":"travel"}`,
			mockBehavior: func(m mocks) {
				m.request.EXPECT().
					SubmitExtension(gomock.Any(), model.SubmitExtensionRequest{
						BorrowRecordID: borrowID,
						RequestedDays:  5,
						Reason:         "travel",
						MemberID:       memberID,
					}).
					Return(created, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "already pending",
			body: `{"borrowRecordId":"` + borrowID + `","requestedDays":5,"reason":"travel"}`,
			mockBehavior: func(m mocks) {
				m.request.EXPECT().
					SubmitExtension(gomock.Any(), gomock.Any()).
					Return(model.LendingRequest{}, errs.ErrAlreadyPending)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"a request is already pending for this record"}`,
		},
		{
			name:         "days out of range",
			body:         `{"borrowRecordId":"` + borrowID + `","requestedDays":31,"reason":"travel"}`,
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing reason",
			body:         `{"borrowRecordId":"` + borrowID + `","requestedDays":5}`,
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m := newHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/requests/extension", h.SubmitExtension, withPrincipal(auth.Principal{UserID: memberID, Roles: []auth.Role{auth.RoleMember}}))

			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/requests/extension", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if tt.name == "ok" {
				require.JSONEq(t, mustJSON(t, created), w.Body.String())
			}
		})
	}
}

func TestHandler_DecideExtension(t *testing.T) {
	t.Parallel()

	newDue := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	type mockBehavior func(m mocks)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "approved",
			body: `{"status":"approved"}`,
			mockBehavior: func(m mocks) {
				m.request.EXPECT().
					Decide(gomock.Any(), model.RequestKindExtension, model.DecideRequest{
						Status:      model.RequestStatusApproved,
						RequestID:   reqID,
						LibrarianID: staffID,
					}).
					Return(model.DecisionResult{Success: true, Status: model.RequestStatusApproved, NewDueDate: &newDue}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"status":"approved","newDueDate":"2024-03-20T10:00:00Z"}`,
		},
		{
			name: "rejected with reason",
			body: `{"status":"rejected","reason":"copy reserved"}`,
			mockBehavior: func(m mocks) {
				m.request.EXPECT().
					Decide(gomock.Any(), model.RequestKindExtension, model.DecideRequest{
						Status:      model.RequestStatusRejected,
						Reason:      "copy reserved",
						RequestID:   reqID,
						LibrarianID: staffID,
					}).
					Return(model.DecisionResult{Success: true, Status: model.RequestStatusRejected}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"status":"rejected"}`,
		},
		{
			name: "already processed",
			body: `{"status":"approved"}`,
			mockBehavior: func(m mocks) {
				m.request.EXPECT().
					Decide(gomock.Any(), model.RequestKindExtension, gomock.Any()).
					Return(model.DecisionResult{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"not found"}`,
		},
		{
			name:         "invalid status",
			body:         `{"status":"maybe"}`,
			mockBehavior: func(m mocks) {},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m := newHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/requests/extension/:requestId/decision", h.DecideExtension, withPrincipal(auth.Principal{UserID: staffID, Roles: []auth.Role{auth.RoleLibrarian}}))

			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/requests/extension/"+reqID+"/decision", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandler_RunSweep(t *testing.T) {
	t.Parallel()

	h, m := newHandler(t)

	m.notify.EXPECT().
		Sweep(gomock.Any(), gomock.Any()).
		Return(model.SweepResult{Success: true, OverdueCount: 2, UpcomingCount: 1, LowStockCount: 3}, nil)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/notifications/sweep", h.RunSweep, withPrincipal(auth.Principal{UserID: staffID, Roles: []auth.Role{auth.RoleAdmin}}))

	r := httptest.NewRequest(http.MethodPost, "/notifications/sweep", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"overdueCount":2,"upcomingCount":1,"lowStockCount":3}`, w.Body.String())
}
