package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/farmnet/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	AddFollow(ctx context.Context, follower, target string) error
	RemoveFollow(ctx context.Context, follower, target string) error
}

type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// GetConversationByParticipants expects the normalized (sorted, deduped)
	// participant set and matches on exact set equality.
	GetConversationByParticipants(ctx context.Context, participants []string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, username string) ([]domain.Conversation, error)
	UpdateSummary(ctx context.Context, conv *domain.Conversation) error
	UpdateAvatarMap(ctx context.Context, id uuid.UUID, avatarMap map[string]string) error
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	CreateComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	List(ctx context.Context) ([]domain.Resource, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, nextAvailable string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
