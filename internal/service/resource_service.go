package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmnet/backend/internal/domain"
	"github.com/farmnet/backend/internal/repository"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotResourceOwner = errors.New("only the creator can modify this resource")
)

type ResourceService struct {
	resourceRepo repository.ResourceRepository
}

func NewResourceService(resourceRepo repository.ResourceRepository) *ResourceService {
	return &ResourceService{resourceRepo: resourceRepo}
}

type CreateResourceInput struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Owner         string `json:"owner"`
	Contact       string `json:"contact"`
	Location      string `json:"location"`
	NextAvailable string `json:"next_available"`
}

func (s *ResourceService) Create(ctx context.Context, createdBy string, input CreateResourceInput) (*domain.Resource, error) {
	resource := &domain.Resource{
		ID:            uuid.New(),
		Name:          input.Name,
		Status:        input.Status,
		Owner:         input.Owner,
		Contact:       input.Contact,
		Location:      input.Location,
		NextAvailable: input.NextAvailable,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return resource, nil
}

func (s *ResourceService) List(ctx context.Context) ([]domain.Resource, error) {
	resources, err := s.resourceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if resources == nil {
		resources = []domain.Resource{}
	}
	return resources, nil
}

func (s *ResourceService) UpdateStatus(ctx context.Context, id uuid.UUID, requester, status, nextAvailable string) (*domain.Resource, error) {
	resource, err := s.requireOwned(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if status != "" {
		resource.Status = status
	}
	if nextAvailable != "" {
		resource.NextAvailable = nextAvailable
	}

	if err := s.resourceRepo.UpdateStatus(ctx, id, resource.Status, resource.NextAvailable); err != nil {
		return nil, fmt.Errorf("updating resource: %w", err)
	}
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, id uuid.UUID, requester string) error {
	if _, err := s.requireOwned(ctx, id, requester); err != nil {
		return err
	}
	return s.resourceRepo.Delete(ctx, id)
}

func (s *ResourceService) requireOwned(ctx context.Context, id uuid.UUID, requester string) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}
	if resource.CreatedBy != requester {
		return nil, ErrNotResourceOwner
	}
	return resource, nil
}
