package workout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

// Notifier receives social fan-out after a like or comment commits.
// Errors from it are logged, never surfaced to the actor.
type Notifier interface {
	SendLikeNotification(ctx context.Context, ownerID, likerID, likerName, workoutID string) error
	SendCommentNotification(ctx context.Context, ownerID, commenterID, commenterName, workoutID, comment string) error
}

// UserDirectory resolves profiles for denormalized author fields and the
// friend list that defines the feed.
type UserDirectory interface {
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
	GetFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// MediaDeleter removes a stored photo when its workout goes away.
type MediaDeleter interface {
	DeletePhoto(ctx context.Context, id string) error
}

// WorkoutInput carries the writable workout fields.
type WorkoutInput struct {
	Date     time.Time
	Duration int
	Notes    string
	Feeling  int
	Type     string
	Distance *float64
	PhotoURL *string
	PhotoID  *string
}

// WorkoutView is a workout with its social counters resolved.
type WorkoutView struct {
	*dbmysql.Workout
	Likes    []string                  `json:"likes"`
	Comments []*dbmysql.WorkoutComment `json:"comments"`
}

type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID string, input WorkoutInput) (*dbmysql.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID, userID string, input WorkoutInput) error
	DeleteWorkout(ctx context.Context, workoutID, userID string) error
	GetWorkout(ctx context.Context, workoutID string) (*WorkoutView, error)
	ListUserWorkouts(ctx context.Context, userID string) ([]*WorkoutView, error)
	FeedWorkouts(ctx context.Context, userID string) ([]*WorkoutView, error)

	ToggleLike(ctx context.Context, workoutID, userID string) (liked bool, err error)
	AddComment(ctx context.Context, workoutID, authorID, text string) (*dbmysql.WorkoutComment, error)
	DeleteComment(ctx context.Context, commentID, requesterID string) error
}

type workoutService struct {
	repo      WorkoutRepository
	directory UserDirectory
	notifier  Notifier
	media     MediaDeleter
}

func NewWorkoutService(
	repo WorkoutRepository,
	directory UserDirectory,
	notifier Notifier,
	media MediaDeleter,
) WorkoutService {
	return &workoutService{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		media:     media,
	}
}

func validWorkoutType(t string) bool {
	switch t {
	case "musculation", "running", "other":
		return true
	}
	return false
}

func (s *workoutService) validateInput(input WorkoutInput) error {
	if input.Date.IsZero() {
		return fmt.Errorf("date is required: %w", common.ErrValidation)
	}
	if input.Duration <= 0 {
		return fmt.Errorf("duration must be positive: %w", common.ErrValidation)
	}
	if input.Feeling < 1 || input.Feeling > 5 {
		return fmt.Errorf("feeling must be between 1 and 5: %w", common.ErrValidation)
	}
	if !validWorkoutType(input.Type) {
		return fmt.Errorf("unknown workout type %q: %w", input.Type, common.ErrValidation)
	}
	if input.Distance != nil && *input.Distance <= 0 {
		return fmt.Errorf("distance must be positive: %w", common.ErrValidation)
	}
	return nil
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID string, input WorkoutInput) (*dbmysql.Workout, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	author, err := s.directory.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	workout := &dbmysql.Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  author.DisplayName,
		UserPhoto: author.PhotoURL,
		Date:      input.Date,
		Duration:  input.Duration,
		Notes:     input.Notes,
		Feeling:   input.Feeling,
		Type:      input.Type,
		Distance:  input.Distance,
		PhotoURL:  input.PhotoURL,
		PhotoID:   input.PhotoID,
	}
	if err := s.repo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, workoutID, userID string, input WorkoutInput) error {
	if err := s.validateInput(input); err != nil {
		return err
	}

	workout, err := s.repo.ByID(ctx, workoutID)
	if err != nil {
		return err
	}
	if workout.UserID != userID {
		return fmt.Errorf("only the owner can edit a workout: %w", common.ErrPermissionDenied)
	}

	workout.Date = input.Date
	workout.Duration = input.Duration
	workout.Notes = input.Notes
	workout.Feeling = input.Feeling
	workout.Type = input.Type
	workout.Distance = input.Distance
	if input.PhotoURL != nil {
		workout.PhotoURL = input.PhotoURL
	}
	if input.PhotoID != nil {
		workout.PhotoID = input.PhotoID
	}

	return s.repo.Update(ctx, workout)
}

// DeleteWorkout removes the workout, its social rows and its stored photo.
// A photo cleanup failure is logged; the workout is gone either way.
func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID, userID string) error {
	workout, err := s.repo.ByID(ctx, workoutID)
	if err != nil {
		return err
	}
	if workout.UserID != userID {
		return fmt.Errorf("only the owner can delete a workout: %w", common.ErrPermissionDenied)
	}

	if err := s.repo.Delete(ctx, workoutID); err != nil {
		return err
	}

	if workout.PhotoID != nil && s.media != nil {
		if err := s.media.DeletePhoto(ctx, *workout.PhotoID); err != nil {
			log.Printf("workout: failed to delete photo %s: %v", *workout.PhotoID, err)
		}
	}
	return nil
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID string) (*WorkoutView, error) {
	workout, err := s.repo.ByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, workout)
}

func (s *workoutService) ListUserWorkouts(ctx context.Context, userID string) ([]*WorkoutView, error) {
	workouts, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, workouts)
}

// FeedWorkouts returns the workouts of the user and their friends, newest
// first.
func (s *workoutService) FeedWorkouts(ctx context.Context, userID string) ([]*WorkoutView, error) {
	friendIDs, err := s.directory.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.repo.ByUsers(ctx, append(friendIDs, userID))
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, workouts)
}

// ToggleLike flips like-set membership for the user. The owner is only
// notified on the absent to present transition, and never about their own
// like.
func (s *workoutService) ToggleLike(ctx context.Context, workoutID, userID string) (bool, error) {
	workout, err := s.repo.ByID(ctx, workoutID)
	if err != nil {
		return false, err
	}

	liked, err := s.repo.HasLike(ctx, workoutID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.repo.RemoveLike(ctx, workoutID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.AddLike(ctx, workoutID, userID); err != nil {
		return false, err
	}

	s.notifyLike(ctx, workout, userID)
	return true, nil
}

func (s *workoutService) notifyLike(ctx context.Context, workout *dbmysql.Workout, likerID string) {
	likerName := "Quelqu'un"
	if liker, err := s.directory.GetProfile(ctx, likerID); err == nil {
		likerName = liker.DisplayName
	}
	if err := s.notifier.SendLikeNotification(ctx, workout.UserID, likerID, likerName, workout.ID); err != nil {
		log.Printf("workout: like notification for %s failed: %v", workout.ID, err)
	}
}

func (s *workoutService) AddComment(ctx context.Context, workoutID, authorID, text string) (*dbmysql.WorkoutComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text cannot be empty: %w", common.ErrValidation)
	}

	workout, err := s.repo.ByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	author, err := s.directory.GetProfile(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &dbmysql.WorkoutComment{
		ID:          uuid.NewString(),
		WorkoutID:   workoutID,
		AuthorID:    authorID,
		AuthorName:  author.DisplayName,
		AuthorPhoto: author.PhotoURL,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.notifier.SendCommentNotification(ctx, workout.UserID, authorID, author.DisplayName, workoutID, text); err != nil {
		log.Printf("workout: comment notification for %s failed: %v", workoutID, err)
	}
	return comment, nil
}

// DeleteComment is allowed for the comment author and the workout owner.
func (s *workoutService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	comment, err := s.repo.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != requesterID {
		workout, err := s.repo.ByID(ctx, comment.WorkoutID)
		if err != nil {
			return err
		}
		if workout.UserID != requesterID {
			return fmt.Errorf("not the comment author or workout owner: %w", common.ErrPermissionDenied)
		}
	}

	return s.repo.DeleteComment(ctx, commentID)
}

func (s *workoutService) buildView(ctx context.Context, workout *dbmysql.Workout) (*WorkoutView, error) {
	likes, err := s.repo.Likes(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.Comments(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	return &WorkoutView{Workout: workout, Likes: likes, Comments: comments}, nil
}

func (s *workoutService) buildViews(ctx context.Context, workouts []*dbmysql.Workout) ([]*WorkoutView, error) {
	views := make([]*WorkoutView, 0, len(workouts))
	for _, w := range workouts {
		view, err := s.buildView(ctx, w)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
