package user

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type UserHandler struct {
	service  UserService
	validate *validator.Validate
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *profileDTO `json:"user"`
}

type profileDTO struct {
	ID            string  `json:"id"`
	Email         string  `json:"email,omitempty"`
	DisplayName   string  `json:"display_name"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	FavoriteSport *string `json:"favorite_sport,omitempty"`
	TotalSteps    int64   `json:"total_steps"`
}

func toProfileDTO(u *dbmysql.User, includeEmail bool) *profileDTO {
	dto := &profileDTO{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		Bio:           u.Bio,
		FavoriteSport: u.FavoriteSport,
		TotalSteps:    u.TotalSteps,
	}
	if includeEmail {
		dto.Email = u.Email
	}
	return dto
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	u, token, err := h.service.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: toProfileDTO(u, true)})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	u, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: toProfileDTO(u, true)})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, toProfileDTO(u, true))
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, toProfileDTO(u, false))
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	results := make([]*profileDTO, 0, len(users))
	for _, u := range users {
		results = append(results, toProfileDTO(u, false))
	}
	common.WriteJSON(w, http.StatusOK, results)
}

type updateProfileRequest struct {
	DisplayName   *string `json:"display_name"`
	Bio           *string `json:"bio"`
	FavoriteSport *string `json:"favorite_sport"`
	PhotoURL      *string `json:"photo_url" validate:"omitempty,url"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req updateProfileRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	update := ProfileUpdate{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		FavoriteSport: req.FavoriteSport,
		PhotoURL:      req.PhotoURL,
	}
	if err := h.service.UpdateProfile(r.Context(), userID, update); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type updateStepsRequest struct {
	TotalSteps int64 `json:"total_steps" validate:"min=0"`
}

func (h *UserHandler) UpdateSteps(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req updateStepsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.service.UpdateTotalSteps(r.Context(), userID, req.TotalSteps); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	friendID := mux.Vars(r)["id"]

	if err := h.service.AddFriend(r.Context(), userID, friendID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	friendID := mux.Vars(r)["id"]

	if err := h.service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	friends, err := h.service.GetFriends(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	results := make([]*profileDTO, 0, len(friends))
	for _, u := range friends {
		results = append(results, toProfileDTO(u, false))
	}
	common.WriteJSON(w, http.StatusOK, results)
}

type registerDeviceRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
	Platform    string `json:"platform" validate:"required,oneof=ios android web"`
}

func (h *UserHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req registerDeviceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, fmt.Errorf("invalid body: %w", common.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, fmt.Errorf("%v: %w", err, common.ErrValidation))
		return
	}

	if err := h.service.RegisterDevice(r.Context(), userID, req.DeviceToken, req.Platform); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// RegisterRoutes mounts the user routes. The auth middleware is applied
// by the server on the protected subrouter.
func (h *UserHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	protected.HandleFunc("/users/me", h.Me).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/steps", h.UpdateSteps).Methods(http.MethodPut)
	protected.HandleFunc("/users/search", h.Search).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/friends", h.ListFriends).Methods(http.MethodGet)
	protected.HandleFunc("/friends/{id}", h.AddFriend).Methods(http.MethodPut)
	protected.HandleFunc("/friends/{id}", h.RemoveFriend).Methods(http.MethodDelete)
	protected.HandleFunc("/devices", h.RegisterDevice).Methods(http.MethodPost)
}
