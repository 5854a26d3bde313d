package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/AmnezziaCS/FitConnect/internal/chat/service"
	"github.com/AmnezziaCS/FitConnect/internal/common"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The mobile client connects from its own origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	service  service.ChatService
	validate *validator.Validate
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{
		service:  svc,
		validate: validator.New(),
	}
}

type openConversationRequest struct {
	OtherUserID string `json:"other_user_id" validate:"required"`
}

func (h *ChatHandler) OpenConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req openConversationRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	conversationID, err := h.service.GetOrCreateConversation(r.Context(), userID, req.OtherUserID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"conversation_id": conversationID})
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, conversations)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListMessages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req sendMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	msg, err := h.service.SendMessage(r.Context(), mux.Vars(r)["id"], userID, req.Text)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.MarkRead(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// StreamMessages pushes full message snapshots for one conversation over a
// websocket until the client disconnects.
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	snapshots, cancel, err := h.service.SubscribeMessages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("chat: websocket upgrade failed: %v", err)
		return
	}

	go discardReads(conn, cancel)
	writeSnapshots(conn, snapshots)
}

// StreamConversations pushes full inbox snapshots for the authenticated
// user over a websocket.
func (h *ChatHandler) StreamConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	snapshots, cancel, err := h.service.SubscribeConversations(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("chat: websocket upgrade failed: %v", err)
		return
	}

	go discardReads(conn, cancel)
	writeSnapshots(conn, snapshots)
}

// discardReads drains the client side of the socket and cancels the
// subscription on disconnect, which closes the snapshot channel and ends
// the writer.
func discardReads(conn *websocket.Conn, cancel func()) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSnapshots[T any](conn *websocket.Conn, snapshots <-chan T) {
	defer conn.Close()
	for snapshot := range snapshots {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snapshot); err != nil {
			return
		}
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *ChatHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/conversations", h.OpenConversation).Methods(http.MethodPost)
	protected.HandleFunc("/conversations", h.ListConversations).Methods(http.MethodGet)
	protected.HandleFunc("/conversations/stream", h.StreamConversations).Methods(http.MethodGet)
	protected.HandleFunc("/conversations/{id}/messages", h.ListMessages).Methods(http.MethodGet)
	protected.HandleFunc("/conversations/{id}/messages", h.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/conversations/{id}/read", h.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/conversations/{id}/stream", h.StreamMessages).Methods(http.MethodGet)
}
