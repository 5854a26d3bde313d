//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	chathandler "github.com/AmnezziaCS/FitConnect/internal/chat/handler"
	chatrepo "github.com/AmnezziaCS/FitConnect/internal/chat/repository"
	chatsvc "github.com/AmnezziaCS/FitConnect/internal/chat/service"
	"github.com/AmnezziaCS/FitConnect/internal/config"
	"github.com/AmnezziaCS/FitConnect/internal/dbmongo"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
	"github.com/AmnezziaCS/FitConnect/internal/media"
	"github.com/AmnezziaCS/FitConnect/internal/notif"
	"github.com/AmnezziaCS/FitConnect/internal/server"
	"github.com/AmnezziaCS/FitConnect/internal/user"
	"github.com/AmnezziaCS/FitConnect/internal/workout"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.Load,
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,
		dbmongo.NewMediaStorage,
		ProvideTokenManager,
		ProvideRedisPublisher,
		ProvideFirebaseApp,
		ProvidePushClient,

		dbmysql.NewNotificationRepository,
		user.NewUserRepository,
		user.NewFriendRepository,
		user.NewDeviceRepository,
		chatrepo.NewConversationRepository,
		chatrepo.NewMessageRepository,
		workout.NewWorkoutRepository,

		user.NewUserService,
		notif.NewNotificationService,
		chatsvc.NewChatService,
		workout.NewWorkoutService,

		wire.Bind(new(chatsvc.UserDirectory), new(user.UserService)),
		wire.Bind(new(chatsvc.Notifier), new(*notif.NotificationService)),
		wire.Bind(new(workout.UserDirectory), new(user.UserService)),
		wire.Bind(new(workout.Notifier), new(*notif.NotificationService)),
		wire.Bind(new(workout.MediaDeleter), new(*dbmongo.MediaStorage)),

		user.NewUserHandler,
		chathandler.NewChatHandler,
		workout.NewWorkoutHandler,
		notif.NewNotificationHandler,
		media.NewMediaHandler,

		server.NewRouter,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
