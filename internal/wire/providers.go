package wire

import (
	"context"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/config"
	"github.com/AmnezziaCS/FitConnect/internal/dbmongo"
	"github.com/AmnezziaCS/FitConnect/internal/notif"
)

// Application is the fully wired service graph.
type Application struct {
	Config        *config.Config
	DB            *gorm.DB
	Mongo         *dbmongo.MongoClient
	Router        *mux.Router
	Notifications *notif.NotificationService
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	ttl := time.Duration(cfg.Auth.TokenTTLHrs) * time.Hour
	return common.NewTokenManager(cfg.Auth.JWTSecret, ttl)
}

// ProvideRedisPublisher returns nil when redis is disabled; the
// notification service skips the redis observer in that case.
func ProvideRedisPublisher(cfg *config.Config) common.Publisher {
	if !cfg.Redis.Enabled {
		log.Println("Redis disabled, live notification relay off")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideFirebaseApp returns nil when FCM is disabled or misconfigured.
// Push delivery is optional; the rest of the service runs without it.
func ProvideFirebaseApp(cfg *config.Config) (*firebase.App, error) {
	if !cfg.Firebase.Enabled {
		log.Println("Firebase disabled")
		return nil, nil
	}

	if cfg.Firebase.CredentialsFilePath == "" {
		log.Println("Firebase credentials not provided")
		return nil, nil
	}

	opt := option.WithCredentialsFile(cfg.Firebase.CredentialsFilePath)
	firebaseConfig := &firebase.Config{
		ProjectID: cfg.Firebase.ProjectID,
	}

	app, err := firebase.NewApp(context.Background(), firebaseConfig, opt)
	if err != nil {
		log.Printf("Firebase initialization failed: %v", err)
		return nil, nil
	}

	return app, nil
}

func ProvidePushClient(app *firebase.App) (common.PushClient, error) {
	if app == nil {
		log.Println("Firebase app not available, FCM disabled")
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Failed to create FCM client: %v", err)
		return nil, nil
	}

	return client, nil
}
