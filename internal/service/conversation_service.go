package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/farmnet/backend/internal/domain"
	"github.com/farmnet/backend/internal/repository"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not a participant in this conversation")
	ErrTooFewParticipants   = errors.New("at least 2 distinct participants are required")
	ErrEmptyMessage         = errors.New("message text is required")
)

type ConversationService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
}

func NewConversationService(convRepo repository.ConversationRepository, userRepo repository.UserRepository) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		userRepo: userRepo,
	}
}

// FindOrCreate returns the conversation whose participant set equals the
// requested one, creating it if absent. The requester is always counted as
// a participant, whether or not the caller listed it.
func (s *ConversationService) FindOrCreate(ctx context.Context, requester string, participants []string) (*domain.Conversation, error) {
	normalized := normalizeParticipants(append(participants, requester))
	if len(normalized) < 2 {
		return nil, ErrTooFewParticipants
	}

	conv, err := s.convRepo.GetConversationByParticipants(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	avatarMap, err := s.resolveAvatars(ctx, normalized)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conv = &domain.Conversation{
		ID:            uuid.New(),
		Participants:  normalized,
		LastMessageAt: now,
		AvatarMap:     avatarMap,
		CreatedAt:     now,
	}

	if err := s.convRepo.CreateConversation(ctx, conv); err != nil {
		// A concurrent request may have created the same participant set
		// first; the unique index on the normalized set rejects ours, so
		// return the winner.
		if isUniqueViolation(err) {
			existing, lookupErr := s.convRepo.GetConversationByParticipants(ctx, normalized)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	return conv, nil
}

// ListForUser returns the user's conversations, most recently active
// first. Conversations with an empty avatar map get it rebuilt from the
// identity store and persisted; a failed repair never blocks the listing.
func (s *ConversationService) ListForUser(ctx context.Context, username string) ([]domain.Conversation, error) {
	convs, err := s.convRepo.ListConversations(ctx, username)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range convs {
		if len(convs[i].AvatarMap) > 0 {
			continue
		}
		conv := &convs[i]
		g.Go(func() error {
			avatarMap, err := s.resolveAvatars(gctx, conv.Participants)
			if err != nil || len(avatarMap) == 0 {
				return nil
			}
			if err := s.convRepo.UpdateAvatarMap(gctx, conv.ID, avatarMap); err != nil {
				return nil
			}
			conv.AvatarMap = avatarMap
			return nil
		})
	}
	_ = g.Wait()

	return convs, nil
}

// AppendMessage stores an immutable message and keeps the conversation's
// denormalized summary in step with it. The sender must come from the
// verified credential, never from the request body.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID uuid.UUID, sender, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.convRepo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(sender) {
		return nil, ErrNotParticipant
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		CreatedAt:      time.Now(),
	}

	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	conv.LastMessage = text
	conv.LastMessageAt = msg.CreatedAt
	if _, ok := conv.AvatarMap[sender]; !ok {
		if user, err := s.userRepo.GetByUsername(ctx, sender); err == nil && user != nil && user.AvatarURL != nil {
			if conv.AvatarMap == nil {
				conv.AvatarMap = map[string]string{}
			}
			conv.AvatarMap[sender] = *user.AvatarURL
		}
	}

	if err := s.convRepo.UpdateSummary(ctx, conv); err != nil {
		return nil, fmt.Errorf("updating conversation summary: %w", err)
	}

	return msg, nil
}

// ListMessages returns the full message history in creation order.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID uuid.UUID, requester string) ([]domain.Message, error) {
	conv, err := s.convRepo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(requester) {
		return nil, ErrNotParticipant
	}

	messages, err := s.convRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *ConversationService) resolveAvatars(ctx context.Context, participants []string) (map[string]string, error) {
	users, err := s.userRepo.ListByUsernames(ctx, participants)
	if err != nil {
		return nil, err
	}

	avatarMap := make(map[string]string)
	for _, u := range users {
		if u.AvatarURL != nil && *u.AvatarURL != "" {
			avatarMap[u.Username] = *u.AvatarURL
		}
	}
	return avatarMap, nil
}

// normalizeParticipants trims, drops empties, dedupes and sorts so that
// the same set of usernames always produces the same key.
func normalizeParticipants(participants []string) []string {
	seen := make(map[string]struct{}, len(participants))
	normalized := make([]string, 0, len(participants))
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		normalized = append(normalized, p)
	}
	sort.Strings(normalized)
	return normalized
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
