package catalog

import (
	"context"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/internal/repository"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, search, page, size)
}

func (s *Service) UpdateBook(ctx context.Context, bookID string, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, bookID, req)
}

func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	return s.repo.DeleteBook(ctx, bookID)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListPlans(ctx context.Context) ([]model.MembershipPlan, error) {
	return s.repo.ListPlans(ctx)
}

func (s *Service) CreatePlan(ctx context.Context, req model.CreatePlanRequest) (model.MembershipPlan, error) {
	return s.repo.CreatePlan(ctx, req)
}

func (s *Service) ListMembers(ctx context.Context) ([]model.Profile, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) GetMember(ctx context.Context, memberID string) (model.Profile, error) {
	return s.repo.GetMember(ctx, memberID)
}
