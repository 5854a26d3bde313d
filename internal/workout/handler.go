package workout

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/AmnezziaCS/FitConnect/internal/common"
)

type WorkoutHandler struct {
	service  WorkoutService
	validate *validator.Validate
}

func NewWorkoutHandler(service WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

type workoutRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	Duration int       `json:"duration" validate:"required,gt=0"`
	Notes    string    `json:"notes"`
	Feeling  int       `json:"feeling" validate:"required,min=1,max=5"`
	Type     string    `json:"type" validate:"required,oneof=musculation running other"`
	Distance *float64  `json:"distance" validate:"omitempty,gt=0"`
	PhotoURL *string   `json:"photo_url" validate:"omitempty,url"`
	PhotoID  *string   `json:"photo_id"`
}

func (r workoutRequest) toInput() WorkoutInput {
	return WorkoutInput{
		Date:     r.Date,
		Duration: r.Duration,
		Notes:    r.Notes,
		Feeling:  r.Feeling,
		Type:     r.Type,
		Distance: r.Distance,
		PhotoURL: r.PhotoURL,
		PhotoID:  r.PhotoID,
	}
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req workoutRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	workout, err := h.service.CreateWorkout(r.Context(), userID, req.toInput())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req workoutRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	if err := h.service.UpdateWorkout(r.Context(), mux.Vars(r)["id"], userID, req.toInput()); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.DeleteWorkout(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetWorkout(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *WorkoutHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	views, err := h.service.ListUserWorkouts(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *WorkoutHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListUserWorkouts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *WorkoutHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	views, err := h.service.FeedWorkouts(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *WorkoutHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	liked, err := h.service.ToggleLike(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *WorkoutHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req commentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	comment, err := h.service.AddComment(r.Context(), mux.Vars(r)["id"], userID, req.Text)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, comment)
}

func (h *WorkoutHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	if err := h.service.DeleteComment(r.Context(), mux.Vars(r)["commentId"], userID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *WorkoutHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/workouts", h.Create).Methods(http.MethodPost)
	protected.HandleFunc("/workouts", h.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/feed", h.Feed).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/{id}", h.Get).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/{id}", h.Update).Methods(http.MethodPut)
	protected.HandleFunc("/workouts/{id}", h.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/workouts/{id}/like", h.ToggleLike).Methods(http.MethodPost)
	protected.HandleFunc("/workouts/{id}/comments", h.AddComment).Methods(http.MethodPost)
	protected.HandleFunc("/comments/{commentId}", h.DeleteComment).Methods(http.MethodDelete)
	protected.HandleFunc("/users/{id}/workouts", h.ListByUser).Methods(http.MethodGet)
}
