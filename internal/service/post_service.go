package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmnet/backend/internal/domain"
	"github.com/farmnet/backend/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyPost    = errors.New("post text is required")
	ErrEmptyComment = errors.New("comment text is required")
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, author, text, location string, imageURLs []string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPost
	}
	if imageURLs == nil {
		imageURLs = []string{}
	}

	post := &domain.Post{
		ID:        uuid.New(),
		Author:    author,
		Text:      text,
		ImageURLs: imageURLs,
		Location:  strings.TrimSpace(location),
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) AddComment(ctx context.Context, postID uuid.UUID, author, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comments, err := s.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}
