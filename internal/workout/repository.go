package workout

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *dbmysql.Workout) error
	ByID(ctx context.Context, id string) (*dbmysql.Workout, error)
	Update(ctx context.Context, workout *dbmysql.Workout) error
	Delete(ctx context.Context, id string) error
	ByUser(ctx context.Context, userID string) ([]*dbmysql.Workout, error)
	ByUsers(ctx context.Context, userIDs []string) ([]*dbmysql.Workout, error)

	HasLike(ctx context.Context, workoutID, userID string) (bool, error)
	AddLike(ctx context.Context, workoutID, userID string) error
	RemoveLike(ctx context.Context, workoutID, userID string) error
	Likes(ctx context.Context, workoutID string) ([]string, error)

	AddComment(ctx context.Context, comment *dbmysql.WorkoutComment) error
	CommentByID(ctx context.Context, id string) (*dbmysql.WorkoutComment, error)
	DeleteComment(ctx context.Context, id string) error
	Comments(ctx context.Context, workoutID string) ([]*dbmysql.WorkoutComment, error)
}

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, workout *dbmysql.Workout) error {
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (r *workoutRepository) ByID(ctx context.Context, id string) (*dbmysql.Workout, error) {
	var workout dbmysql.Workout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workout %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return &workout, nil
}

func (r *workoutRepository) Update(ctx context.Context, workout *dbmysql.Workout) error {
	if err := r.db.WithContext(ctx).Save(workout).Error; err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	return nil
}

// Delete removes the workout and its dependent like and comment rows.
func (r *workoutRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&dbmysql.WorkoutLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		if err := tx.Where("workout_id = ?", id).Delete(&dbmysql.WorkoutComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&dbmysql.Workout{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete workout: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("workout %s: %w", id, common.ErrNotFound)
		}
		return nil
	})
}

func (r *workoutRepository) ByUser(ctx context.Context, userID string) ([]*dbmysql.Workout, error) {
	var workouts []*dbmysql.Workout
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

func (r *workoutRepository) ByUsers(ctx context.Context, userIDs []string) ([]*dbmysql.Workout, error) {
	if len(userIDs) == 0 {
		return []*dbmysql.Workout{}, nil
	}
	var workouts []*dbmysql.Workout
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feed workouts: %w", err)
	}
	return workouts, nil
}

func (r *workoutRepository) HasLike(ctx context.Context, workoutID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.WorkoutLike{}).
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

// AddLike is idempotent: the unique index absorbs a concurrent duplicate.
func (r *workoutRepository) AddLike(ctx context.Context, workoutID, userID string) error {
	like := &dbmysql.WorkoutLike{WorkoutID: workoutID, UserID: userID}
	err := r.db.WithContext(ctx).
		Where(dbmysql.WorkoutLike{WorkoutID: workoutID, UserID: userID}).
		FirstOrCreate(like).Error
	if err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (r *workoutRepository) RemoveLike(ctx context.Context, workoutID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		Delete(&dbmysql.WorkoutLike{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (r *workoutRepository) Likes(ctx context.Context, workoutID string) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.WorkoutLike{}).
		Where("workout_id = ?", workoutID).
		Order("created_at ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	return userIDs, nil
}

func (r *workoutRepository) AddComment(ctx context.Context, comment *dbmysql.WorkoutComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

func (r *workoutRepository) CommentByID(ctx context.Context, id string) (*dbmysql.WorkoutComment, error) {
	var comment dbmysql.WorkoutComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (r *workoutRepository) DeleteComment(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&dbmysql.WorkoutComment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *workoutRepository) Comments(ctx context.Context, workoutID string) ([]*dbmysql.WorkoutComment, error) {
	var comments []*dbmysql.WorkoutComment
	err := r.db.WithContext(ctx).
		Where("workout_id = ?", workoutID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
