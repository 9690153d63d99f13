package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmnet/backend/internal/domain"
	"github.com/farmnet/backend/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfFollow   = errors.New("cannot follow yourself")
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Follow adds target to follower's following set and follower to target's
// followers set. Following an already-followed user is a no-op.
func (s *UserService) Follow(ctx context.Context, follower, target string) error {
	if follower == target {
		return ErrSelfFollow
	}
	if err := s.requireUsers(ctx, follower, target); err != nil {
		return err
	}
	if err := s.userRepo.AddFollow(ctx, follower, target); err != nil {
		return fmt.Errorf("adding follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow relation on both sides; removing an absent
// relation is a no-op.
func (s *UserService) Unfollow(ctx context.Context, follower, target string) error {
	if follower == target {
		return ErrSelfFollow
	}
	if err := s.requireUsers(ctx, follower, target); err != nil {
		return err
	}
	if err := s.userRepo.RemoveFollow(ctx, follower, target); err != nil {
		return fmt.Errorf("removing follow: %w", err)
	}
	return nil
}

func (s *UserService) requireUsers(ctx context.Context, usernames ...string) error {
	for _, username := range usernames {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
	}
	return nil
}
