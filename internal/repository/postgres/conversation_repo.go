package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmnet/backend/internal/domain"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, participants, last_message, last_message_at, avatar_map, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		conv.ID, conv.Participants, conv.LastMessage,
		conv.LastMessageAt, conv.AvatarMap, conv.CreatedAt,
	)
	return err
}

func (r *ConversationRepo) GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, participants, last_message, last_message_at, avatar_map, created_at
		FROM conversations
		WHERE id = $1`
	return r.getConversation(ctx, query, id)
}

func (r *ConversationRepo) GetConversationByParticipants(ctx context.Context, participants []string) (*domain.Conversation, error) {
	// participants arrive sorted and deduped, so array equality is set
	// equality.
	query := `
		SELECT id, participants, last_message, last_message_at, avatar_map, created_at
		FROM conversations
		WHERE participants = $1`
	return r.getConversation(ctx, query, participants)
}

func (r *ConversationRepo) ListConversations(ctx context.Context, username string) ([]domain.Conversation, error) {
	query := `
		SELECT id, participants, last_message, last_message_at, avatar_map, created_at
		FROM conversations
		WHERE participants @> ARRAY[$1]
		ORDER BY last_message_at DESC`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID, &conv.Participants, &conv.LastMessage,
			&conv.LastMessageAt, &conv.AvatarMap, &conv.CreatedAt,
		); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// UpdateSummary persists the denormalized last-message snapshot and avatar
// map in a single statement so readers never see them out of step.
func (r *ConversationRepo) UpdateSummary(ctx context.Context, conv *domain.Conversation) error {
	query := `
		UPDATE conversations
		SET last_message = $1, last_message_at = $2, avatar_map = $3
		WHERE id = $4`
	_, err := r.pool.Exec(ctx, query,
		conv.LastMessage, conv.LastMessageAt, conv.AvatarMap, conv.ID,
	)
	return err
}

func (r *ConversationRepo) UpdateAvatarMap(ctx context.Context, id uuid.UUID, avatarMap map[string]string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE conversations SET avatar_map = $1 WHERE id = $2`,
		avatarMap, id,
	)
	return err
}

func (r *ConversationRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`
	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.ConversationID, msg.Sender, msg.Text, msg.CreatedAt,
	).Scan(&msg.Seq)
}

func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	// seq breaks ties between messages created in the same instant.
	query := `
		SELECT id, conversation_id, sender, text, seq, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.Sender,
			&msg.Text, &msg.Seq, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *ConversationRepo) getConversation(ctx context.Context, query string, arg any) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&conv.ID, &conv.Participants, &conv.LastMessage,
		&conv.LastMessageAt, &conv.AvatarMap, &conv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
