package services

import (
	"context"
	"errors"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

type SavedViewService struct {
	viewRepo repository.SavedViewRepositoryInterface
	logger   logger.Logger
}

func NewSavedViewService(viewRepo repository.SavedViewRepositoryInterface, log logger.Logger) *SavedViewService {
	return &SavedViewService{
		viewRepo: viewRepo,
		logger:   log,
	}
}

func (s *SavedViewService) CreateView(ctx context.Context, req *models.CreateSavedViewRequest, userID string) (*models.SavedView, error) {
	if req == nil {
		return nil, errors.New("view request is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("view name is required")
	}
	if req.Entity == "" {
		return nil, errors.New("view entity is required")
	}

	view := &models.SavedView{
		UserID:  userID,
		Name:    strings.TrimSpace(req.Name),
		Entity:  req.Entity,
		Filters: req.Filters,
		Columns: req.Columns,
		SortBy:  req.SortBy,
		SortDir: req.SortDir,
		Shared:  req.Shared,
	}

	return s.viewRepo.CreateView(ctx, view)
}

// GetView returns the view when the requester owns it or it is shared.
func (s *SavedViewService) GetView(id string, requesterID string) (*models.SavedView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("view ID is required")
	}

	view, err := s.viewRepo.GetView(id)
	if err != nil {
		return nil, err
	}

	if view.UserID != requesterID && !view.Shared {
		return nil, errors.New("saved view not found")
	}

	return view, nil
}

// GetViewsForUser lists the user's own views plus everything shared by
// others.
func (s *SavedViewService) GetViewsForUser(userID string) ([]*models.SavedView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user ID is required")
	}

	own, err := s.viewRepo.GetViewsByUser(userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.viewRepo.GetSharedViews()
	if err != nil {
		return nil, err
	}

	views := own
	for _, v := range shared {
		if v.UserID != userID {
			views = append(views, v)
		}
	}

	return views, nil
}

func (s *SavedViewService) UpdateView(id string, req *models.UpdateSavedViewRequest, requesterID string) (*models.SavedView, error) {
	view, err := s.viewRepo.GetView(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("update request is required")
	}

	// Shared views stay editable only by their owner.
	if view.UserID != requesterID {
		return nil, errors.New("only the owner can update a saved view")
	}

	updated := *view
	if req.Name != "" {
		updated.Name = strings.TrimSpace(req.Name)
	}
	if req.Filters != nil {
		updated.Filters = req.Filters
	}
	if req.Columns != nil {
		updated.Columns = req.Columns
	}
	if req.SortBy != "" {
		updated.SortBy = req.SortBy
	}
	if req.SortDir != "" {
		updated.SortDir = req.SortDir
	}
	if req.Shared != nil {
		updated.Shared = *req.Shared
	}

	return s.viewRepo.UpdateView(id, &updated)
}

func (s *SavedViewService) DeleteView(id string, requesterID string) error {
	view, err := s.viewRepo.GetView(id)
	if err != nil {
		return err
	}

	if view.UserID != requesterID {
		return errors.New("only the owner can delete a saved view")
	}

	return s.viewRepo.DeleteView(id)
}
