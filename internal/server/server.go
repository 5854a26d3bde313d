package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	chathandler "github.com/AmnezziaCS/FitConnect/internal/chat/handler"
	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/media"
	"github.com/AmnezziaCS/FitConnect/internal/notif"
	"github.com/AmnezziaCS/FitConnect/internal/user"
	"github.com/AmnezziaCS/FitConnect/internal/workout"
)

// NewRouter assembles the API. Auth routes are public; everything else
// sits behind the JWT middleware.
func NewRouter(
	tokens *common.TokenManager,
	userHandler *user.UserHandler,
	chatHandler *chathandler.ChatHandler,
	workoutHandler *workout.WorkoutHandler,
	notificationHandler *notif.NotificationHandler,
	mediaHandler *media.MediaHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	protected := api.NewRoute().Subrouter()
	protected.Use(common.AuthMiddleware(tokens))

	userHandler.RegisterRoutes(api, protected)
	chatHandler.RegisterRoutes(protected)
	workoutHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected)
	mediaHandler.RegisterRoutes(protected)

	return router
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "fitconnect-api",
		"timestamp": time.Now().UTC(),
	})
}
