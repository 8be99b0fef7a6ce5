package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/middleware"
	"anoa.com/kgscp/internal/mocks"
	attachment "anoa.com/kgscp/internal/modules/attachment/service"
	comment "anoa.com/kgscp/internal/modules/comment/service"
	message "anoa.com/kgscp/internal/modules/message/service"
	post "anoa.com/kgscp/internal/modules/post/service"
	profile "anoa.com/kgscp/internal/modules/profile/service"
	reaction "anoa.com/kgscp/internal/modules/reaction/service"
	viewDto "anoa.com/kgscp/internal/modules/view/dto"
	view "anoa.com/kgscp/internal/modules/view/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice     = uuid.MustParse("018f0000-0000-7000-8000-000000000e01")
	bob       = uuid.MustParse("018f0000-0000-7000-8000-000000000e02")
	requestID = uuid.MustParse("018f0000-0000-7000-8000-000000000f01")
)

func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockMessageRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profiles := mocks.NewMockProfileRepository(
		entity.Profile{ID: alice, Name: "Alice", Role: entity.RoleUser},
		entity.Profile{ID: bob, Name: "Bob", Role: entity.RoleUser},
	)
	messages := mocks.NewMockMessageRepository(entity.Message{
		ID: requestID, SenderID: bob, ReceiverID: alice, Type: entity.RequestTypes[0],
		Content: "study group?", Status: string(message.StatusPending),
	})
	posts := mocks.NewMockPostRepository()
	attachments := mocks.NewMockAttachmentRepository()
	comments := mocks.NewMockCommentRepository()
	reactions := mocks.NewMockReactionRepository()
	limiter := mocks.NewMockLimiter()
	blobs := mocks.NewMockBlobStore()

	attachmentSvc := attachment.NewAttachmentService(attachments, blobs)
	messageSvc := message.NewMessageService(messages, profiles, limiter, 0)
	views := view.NewViewService(
		view.NewGuard(),
		post.NewPostService(posts, attachments, attachmentSvc, profiles, blobs, mocks.NewMockSearchService(), mocks.NewMockCountCache(), limiter, 0, "post-images"),
		comment.NewCommentService(comments, posts, profiles, limiter, 0),
		reaction.NewReactionService(reactions, posts, nil),
		attachmentSvc,
		profile.NewProfileService(profiles),
		profile.NewSessionCache(profiles, nil),
		messageSvc,
	)
	h := NewMessageHandler(messageSvc, views)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", alice.String())
		c.Set(middleware.ContextProfile, &entity.Profile{ID: alice, Name: "Alice", Role: entity.RoleUser})
		c.Next()
	})
	r.GET("/messages", h.GetInbox)
	r.POST("/messages", h.SendRequest)
	r.POST("/messages/:message_id/accept", h.Accept)
	r.POST("/messages/:message_id/reject", h.Reject)
	r.POST("/messages/chat/:partner_id", h.SendChat)
	return r, messages
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeInbox(t *testing.T, w *httptest.ResponseRecorder) viewDto.InboxView {
	t.Helper()
	var body struct {
		Data viewDto.InboxView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestMessageHandler_InboxAndAccept(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decodeInbox(t, w)
	require.Len(t, inbox.IncomingPending, 1)
	assert.Equal(t, requestID, inbox.IncomingPending[0].ID)
	assert.Empty(t, inbox.ChatPartners)

	w = do(r, http.MethodPost, "/messages/"+requestID.String()+"/accept", "")
	require.Equal(t, http.StatusOK, w.Code)
	inbox = decodeInbox(t, w)
	assert.Empty(t, inbox.IncomingPending)
	require.NotNil(t, inbox.Partner)
	assert.Equal(t, bob, *inbox.Partner)
	require.Len(t, inbox.ChatPartners, 1)
	assert.Equal(t, "Bob", inbox.ChatPartners[0].Name)

	w = do(r, http.MethodPost, "/messages/chat/"+bob.String(), `{"content":"see you at 4"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	inbox = decodeInbox(t, w)
	require.NotEmpty(t, inbox.Conversation)
	assert.Equal(t, "see you at 4", inbox.Conversation[len(inbox.Conversation)-1].Content)
}

func TestMessageHandler_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	t.Run("partner filter must be a uuid", func(t *testing.T) {
		w := do(r, http.MethodGet, "/messages?partner=bob", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad message id", func(t *testing.T) {
		w := do(r, http.MethodPost, "/messages/nope/accept", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing message", func(t *testing.T) {
		w := do(r, http.MethodPost, "/messages/"+uuid.New().String()+"/accept", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("chat before acceptance is forbidden", func(t *testing.T) {
		w := do(r, http.MethodPost, "/messages/chat/"+bob.String(), `{"content":"hi"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown request type", func(t *testing.T) {
		body := `{"receiver_ids":["` + bob.String() + `"],"type":"spam","content":"hi"}`
		w := do(r, http.MethodPost, "/messages", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reject requires confirmation", func(t *testing.T) {
		w := do(r, http.MethodPost, "/messages/"+requestID.String()+"/reject", `{"confirm":false}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMessageHandler_SendRequest(t *testing.T) {
	r, messages := setupRouter(t)

	body := `{"receiver_ids":["` + bob.String() + `"],"type":"` + entity.RequestTypes[1] + `","content":"mentor me"}`
	w := do(r, http.MethodPost, "/messages", body)
	require.Equal(t, http.StatusCreated, w.Code)

	inbox := decodeInbox(t, w)
	require.Len(t, inbox.Outgoing, 1)
	assert.Equal(t, bob, inbox.Outgoing[0].ReceiverID)
	assert.Len(t, messages.All(), 2)
}
