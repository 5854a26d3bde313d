package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type FriendRepository interface {
	AddFriend(ctx context.Context, userID, friendUserID string) error
	RemoveFriend(ctx context.Context, userID, friendUserID string) error
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// AddFriend writes both directions of the friendship. FirstOrCreate plus
// the unique (user, friend) index keeps duplicates from accumulating.
func (r *friendRepository) AddFriend(ctx context.Context, userID, friendUserID string) error {
	for _, pair := range [][2]string{{userID, friendUserID}, {friendUserID, userID}} {
		friend := dbmysql.Friend{UserID: pair[0], FriendUserID: pair[1]}
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND friend_user_id = ?", pair[0], pair[1]).
			FirstOrCreate(&friend).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *friendRepository) RemoveFriend(ctx context.Context, userID, friendUserID string) error {
	return r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?)",
			userID, friendUserID, friendUserID, userID).
		Delete(&dbmysql.Friend{}).Error
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friend{}).
		Where("user_id = ?", userID).
		Pluck("friend_user_id", &ids).Error
	return ids, err
}

func (r *friendRepository) ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	ids, err := r.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*dbmysql.User{}, nil
	}

	var friends []*dbmysql.User
	err = r.db.WithContext(ctx).Where("id IN ?", ids).Find(&friends).Error
	return friends, err
}
