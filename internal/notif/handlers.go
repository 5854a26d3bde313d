package notif

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/AmnezziaCS/FitConnect/internal/common"
)

type NotificationHandler struct {
	service  *NotificationService
	validate *validator.Validate
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	notifications, err := h.service.List(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.MarkRead(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type scheduleReminderRequest struct {
	At time.Time `json:"at" validate:"required"`
}

func (h *NotificationHandler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req scheduleReminderRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	id, err := h.service.ScheduleReminder(r.Context(), userID, req.At)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]string{"reminder_id": id})
}

func (h *NotificationHandler) CancelReminder(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.CancelScheduled(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *NotificationHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/notifications", h.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", h.UnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", h.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}/read", h.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", h.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/reminders", h.ScheduleReminder).Methods(http.MethodPost)
	protected.HandleFunc("/reminders/{id}", h.CancelReminder).Methods(http.MethodDelete)
}
