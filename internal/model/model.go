package model

import (
	"time"
)

type BorrowStatus string

const (
	BorrowStatusIssued   BorrowStatus = "issued"
	BorrowStatusReturned BorrowStatus = "returned"
	// BorrowStatusOverdue is a display state only. It is never stored: an
	// issued record past its due date reports overdue until returned.
	BorrowStatusOverdue BorrowStatus = "overdue"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type RequestKind string

const (
	RequestKindExtension RequestKind = "extension"
	RequestKindRenewal   RequestKind = "renewal"
)

type NotificationType string

const (
	NotificationOverdue            NotificationType = "overdue"
	NotificationDueReminder        NotificationType = "due_reminder"
	NotificationLowStock           NotificationType = "low_stock"
	NotificationExtensionRequested NotificationType = "extension_requested"
	NotificationExtensionApproved  NotificationType = "extension_approved"
	NotificationExtensionRejected  NotificationType = "extension_rejected"
	NotificationRenewalRequested   NotificationType = "renewal_requested"
	NotificationRenewalApproved    NotificationType = "renewal_approved"
	NotificationRenewalRejected    NotificationType = "renewal_rejected"
)

type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Book struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Publisher       string    `json:"publisher" db:"publisher"`
	PublicationYear int       `json:"publicationYear" db:"publication_year"`
	Description     string    `json:"description" db:"description"`
	CategoryID      *string   `json:"categoryId" db:"category_id"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

type MembershipPlan struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	MaxBooksAllowed int       `json:"maxBooksAllowed" db:"max_books_allowed"`
	FinePerDay      float64   `json:"finePerDay" db:"fine_per_day"`
	DurationDays    int       `json:"durationDays" db:"duration_days"`
	AnnualFee       float64   `json:"annualFee" db:"annual_fee"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type Profile struct {
	ID                   string     `json:"id" db:"id"`
	Email                string     `json:"email" db:"email"`
	FullName             string     `json:"fullName" db:"full_name"`
	Phone                string     `json:"phone" db:"phone"`
	Address              string     `json:"address" db:"address"`
	MembershipPlanID     *string    `json:"membershipPlanId" db:"membership_plan_id"`
	MembershipStartDate  *time.Time `json:"membershipStartDate" db:"membership_start_date"`
	MembershipExpiryDate *time.Time `json:"membershipExpiryDate" db:"membership_expiry_date"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
}

type BorrowRecord struct {
	ID           string       `json:"id" db:"id"`
	BookID       string       `json:"bookId" db:"book_id"`
	MemberID     string       `json:"memberId" db:"member_id"`
	IssuedBy     string       `json:"issuedBy" db:"issued_by"`
	IssueDate    time.Time    `json:"issueDate" db:"issue_date"`
	DueDate      time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate   *time.Time   `json:"returnDate" db:"return_date"`
	Status       BorrowStatus `json:"status" db:"status"`
	FineAmount   float64      `json:"fineAmount" db:"fine_amount"`
	RenewalCount int          `json:"renewalCount" db:"renewal_count"`
	MaxRenewals  int          `json:"maxRenewals" db:"max_renewals"`
}

// EffectiveStatus derives the overdue display state from an issued record.
func (r BorrowRecord) EffectiveStatus(now time.Time) BorrowStatus {
	if r.Status == BorrowStatusIssued && now.After(r.DueDate) {
		return BorrowStatusOverdue
	}
	return r.Status
}

// BorrowDetails joins the member-plan fields the return flow needs.
type BorrowDetails struct {
	BorrowRecord
	BookTitle  string   `json:"bookTitle" db:"book_title"`
	MemberName string   `json:"memberName" db:"member_name"`
	FinePerDay *float64 `json:"finePerDay,omitempty" db:"fine_per_day"`
}

type LendingRequest struct {
	ID             string        `json:"id" db:"id"`
	Kind           RequestKind   `json:"kind" db:"-"`
	BorrowRecordID string        `json:"borrowRecordId" db:"borrow_record_id"`
	MemberID       string        `json:"memberId" db:"member_id"`
	RequestedDays  int           `json:"requestedDays,omitempty" db:"requested_days"`
	Reason         string        `json:"reason,omitempty" db:"reason"`
	Status         RequestStatus `json:"status" db:"status"`
	LibrarianID    *string       `json:"librarianId" db:"librarian_id"`
	LibrarianNote  *string       `json:"librarianReason" db:"librarian_reason"`
	ProcessedAt    *time.Time    `json:"processedAt" db:"processed_at"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}

// RequestDetails carries the joined borrow-record fields a decision needs.
type RequestDetails struct {
	LendingRequest
	BookTitle    string    `json:"bookTitle" db:"book_title"`
	DueDate      time.Time `json:"dueDate" db:"due_date"`
	RenewalCount int       `json:"renewalCount" db:"renewal_count"`
	MaxRenewals  int       `json:"maxRenewals" db:"max_renewals"`
}

type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	RelatedID *string          `json:"relatedId" db:"related_id"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging
	Items []Book `json:"items"`
}

type ListBorrows struct {
	Paging
	Items []BorrowDetails `json:"items"`
}

type CreateBookRequest struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	ISBN            string  `json:"isbn"`
	Publisher       string  `json:"publisher"`
	PublicationYear int     `json:"publicationYear"`
	Description     string  `json:"description"`
	CategoryID      *string `json:"categoryId"`
	TotalCopies     int     `json:"totalCopies" validate:"required,gte=1"`
}

type CreatePlanRequest struct {
	Name            string  `json:"name" validate:"required"`
	MaxBooksAllowed int     `json:"maxBooksAllowed" validate:"required,gte=1"`
	FinePerDay      float64 `json:"finePerDay" validate:"gte=0"`
	DurationDays    int     `json:"durationDays" validate:"required,gte=1"`
	AnnualFee       float64 `json:"annualFee" validate:"gte=0"`
}

type IssueBookRequest struct {
	BookID      string `json:"bookId" validate:"required,uuid"`
	MemberID    string `json:"memberId" validate:"required,uuid"`
	LendingDays int    `json:"lendingDays" validate:"omitempty,gte=1,lte=90"`
	IssuedBy    string `json:"-"`
}

type SubmitExtensionRequest struct {
	BorrowRecordID string `json:"borrowRecordId" validate:"required,uuid"`
	RequestedDays  int    `json:"requestedDays" validate:"required,gte=1,lte=30"`
	Reason         string `json:"reason" validate:"required"`
	MemberID       string `json:"-"`
}

type SubmitRenewalRequest struct {
	BorrowRecordID string `json:"borrowRecordId" validate:"required,uuid"`
	MemberID       string `json:"-"`
}

type DecideRequest struct {
	Status      RequestStatus `json:"status" validate:"required,oneof=approved rejected"`
	Reason      string        `json:"reason"`
	RequestID   string        `json:"-"`
	LibrarianID string        `json:"-"`
}

type DecisionResult struct {
	Success    bool          `json:"success"`
	Status     RequestStatus `json:"status"`
	NewDueDate *time.Time    `json:"newDueDate,omitempty"`
}

type ReturnResult struct {
	Success    bool      `json:"success"`
	FineAmount float64   `json:"fineAmount"`
	ReturnDate time.Time `json:"returnDate"`
}

type RenewResult struct {
	Success           bool      `json:"success"`
	NewDueDate        time.Time `json:"newDueDate"`
	RenewalsRemaining int       `json:"renewalsRemaining"`
}

type SweepResult struct {
	Success       bool `json:"success"`
	OverdueCount  int  `json:"overdueCount"`
	UpcomingCount int  `json:"upcomingCount"`
	LowStockCount int  `json:"lowStockCount"`
}
