package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/domain"
	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/middleware"
)

const testSecret = "test-secret"

// In-memory stores standing in for Postgres.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.users[u.Username] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return f.users[username], nil
}

func (f *fakeUserRepo) ListByUsernames(_ context.Context, usernames []string) ([]domain.User, error) {
	var out []domain.User
	for _, name := range usernames {
		if u, ok := f.users[name]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) AddFollow(_ context.Context, follower, target string) error    { return nil }
func (f *fakeUserRepo) RemoveFollow(_ context.Context, follower, target string) error { return nil }

type fakeConvRepo struct {
	convs    map[uuid.UUID]*domain.Conversation
	messages []domain.Message
	nextSeq  int64
}

func setKey(participants []string) string {
	sorted := append([]string(nil), participants...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func (f *fakeConvRepo) CreateConversation(_ context.Context, conv *domain.Conversation) error {
	c := *conv
	f.convs[conv.ID] = &c
	return nil
}

func (f *fakeConvRepo) GetConversationByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	if c, ok := f.convs[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeConvRepo) GetConversationByParticipants(_ context.Context, participants []string) (*domain.Conversation, error) {
	for _, c := range f.convs {
		if setKey(c.Participants) == setKey(participants) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeConvRepo) ListConversations(_ context.Context, username string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, c := range f.convs {
		if c.HasParticipant(username) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

func (f *fakeConvRepo) UpdateSummary(_ context.Context, conv *domain.Conversation) error {
	c := *conv
	f.convs[conv.ID] = &c
	return nil
}

func (f *fakeConvRepo) UpdateAvatarMap(_ context.Context, id uuid.UUID, avatarMap map[string]string) error {
	if c, ok := f.convs[id]; ok {
		c.AvatarMap = avatarMap
	}
	return nil
}

func (f *fakeConvRepo) CreateMessage(_ context.Context, msg *domain.Message) error {
	f.nextSeq++
	msg.Seq = f.nextSeq
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeConvRepo) ListMessages(_ context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func newTestServer(t *testing.T) (*http.ServeMux, *fakeConvRepo, *fakeUserRepo) {
	t.Helper()

	userRepo := &fakeUserRepo{users: map[string]*domain.User{}}
	convRepo := &fakeConvRepo{convs: map[uuid.UUID]*domain.Conversation{}}

	for _, name := range []string{"alice", "bob", "carol"} {
		avatar := "https://cdn.example/" + name + ".png"
		userRepo.users[name] = &domain.User{
			ID:        uuid.New(),
			Username:  name,
			AvatarURL: &avatar,
		}
	}

	convService := service.NewConversationService(convRepo, userRepo)
	handler := NewConversationHandler(convService, zap.NewNop())
	auth := middleware.Auth(testSecret)

	mux := http.NewServeMux()
	mux.Handle("GET /api/conversations", auth(http.HandlerFunc(handler.List)))
	mux.Handle("POST /api/conversations", auth(http.HandlerFunc(handler.FindOrCreate)))
	mux.Handle("GET /api/conversations/{id}/messages", auth(http.HandlerFunc(handler.ListMessages)))
	mux.Handle("POST /api/conversations/{id}/messages", auth(http.HandlerFunc(handler.SendMessage)))

	return mux, convRepo, userRepo
}

func tokenFor(t *testing.T, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      uuid.New().String(),
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestConversationEndpoints(t *testing.T) {
	mux, _, _ := newTestServer(t)
	alice := tokenFor(t, "alice")
	carol := tokenFor(t, "carol")

	// Create through the API; the caller is implicit.
	rec := doRequest(t, mux, http.MethodPost, "/api/conversations", alice, `{"participants":["bob"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var createResp struct {
		Conversation domain.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &createResp))
	convID := createResp.Conversation.ID
	assert.ElementsMatch(t, []string{"alice", "bob"}, createResp.Conversation.Participants)
	assert.Equal(t, "https://cdn.example/alice.png", createResp.Conversation.AvatarMap["alice"])

	// Same pair, other order, other caller: same conversation.
	bob := tokenFor(t, "bob")
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations", bob, `{"participants":["alice","bob"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &createResp))
	assert.Equal(t, convID, createResp.Conversation.ID)

	// Too few participants.
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations", alice, `{"participants":["alice"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Post a message as a participant.
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations/"+convID.String()+"/messages", alice, `{"text":" Hello "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var msgResp struct {
		Message domain.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgResp))
	assert.Equal(t, "Hello", msgResp.Message.Text)
	assert.Equal(t, "alice", msgResp.Message.Sender)

	// Outsider is rejected and nothing is stored.
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations/"+convID.String()+"/messages", carol, `{"text":"Hi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Whitespace-only text.
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations/"+convID.String()+"/messages", alice, `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown conversation.
	rec = doRequest(t, mux, http.MethodPost, "/api/conversations/"+uuid.NewString()+"/messages", alice, `{"text":"Hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// History contains exactly the accepted message.
	rec = doRequest(t, mux, http.MethodGet, "/api/conversations/"+convID.String()+"/messages", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Messages, 1)
	assert.Equal(t, "Hello", listResp.Messages[0].Text)

	// Non-participants cannot read it either.
	rec = doRequest(t, mux, http.MethodGet, "/api/conversations/"+convID.String()+"/messages", carol, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Listing reflects the last message and requires the caller's own name.
	rec = doRequest(t, mux, http.MethodGet, "/api/conversations", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var convsResp struct {
		Conversations []domain.Conversation `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convsResp))
	require.Len(t, convsResp.Conversations, 1)
	assert.Equal(t, "Hello", convsResp.Conversations[0].LastMessage)

	rec = doRequest(t, mux, http.MethodGet, "/api/conversations?user=bob", alice, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No token at all.
	rec = doRequest(t, mux, http.MethodGet, "/api/conversations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
