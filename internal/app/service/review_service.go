package service

import (
	"errors"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this restaurant")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")

	// ErrRatingSync means the review mutation committed but the restaurant's
	// ratings aggregate could not be rewritten. The aggregate stays stale
	// until the next successful recompute.
	ErrRatingSync = errors.New("failed to sync restaurant rating aggregate")
)

type CreateReviewInput struct {
	RestaurantID uint
	Rating       int
	Title        string
	Comment      string
	IsAnonymous  bool
	PhotoURLs    []string
}

type UpdateReviewInput struct {
	Rating  *int
	Title   *string
	Comment *string
}

type ReviewService interface {
	CreateReview(userID uint, input CreateReviewInput) (*model.Review, error)
	UpdateReview(userID, reviewID uint, input UpdateReviewInput) (*model.Review, error)
	DeleteReview(actorID uint, role model.UserRole, reviewID uint) error
	GetReviewByID(reviewID uint) (*model.Review, error)
	GetRestaurantReviews(restaurantID uint, rating, limit, offset int) ([]model.Review, int64, error)
	GetUserReviews(userID uint) ([]model.Review, error)
	ToggleLike(userID, reviewID uint) (bool, error)
	AddReply(userID, reviewID uint, text string) (*model.ReviewReply, error)
	AddPhoto(userID, reviewID uint, url string) (*model.ReviewPhoto, error)
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	restaurantRepo repository.RestaurantRepository
	orderRepo      repository.OrderRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	restaurantRepo repository.RestaurantRepository,
	orderRepo repository.OrderRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
		orderRepo:      orderRepo,
	}
}

func (s *reviewService) CreateReview(userID uint, input CreateReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":       userID,
		"restaurant_id": input.RestaurantID,
		"rating":        input.Rating,
	})

	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.restaurantRepo.FindByID(input.RestaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.FindByUserAndRestaurant(userID, input.RestaurantID); err == nil {
		logger.Warn("Duplicate review rejected", map[string]interface{}{
			"user_id":       userID,
			"restaurant_id": input.RestaurantID,
		})
		return nil, ErrReviewAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	verifiedOrder := s.deliveredOrder(userID, input.RestaurantID)

	review := &model.Review{
		UserID:        userID,
		RestaurantID:  input.RestaurantID,
		Rating:        input.Rating,
		Title:         input.Title,
		Comment:       input.Comment,
		IsAnonymous:   input.IsAnonymous,
		OrderVerified: verifiedOrder != nil,
	}
	for _, url := range input.PhotoURLs {
		review.Photos = append(review.Photos, model.ReviewPhoto{URL: url})
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if verifiedOrder != nil && !verifiedOrder.IsReviewed {
		if err := s.orderRepo.MarkReviewed(verifiedOrder.ID); err != nil {
			logger.Warn("Failed to mark order reviewed", map[string]interface{}{
				"order_id":  verifiedOrder.ID,
				"review_id": review.ID,
			})
		}
	}

	// The review is committed at this point. An aggregate failure is
	// surfaced to the caller but never rolls the review back.
	if err := s.recomputeRestaurantRating(input.RestaurantID); err != nil {
		return review, ErrRatingSync
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"user_id":       userID,
		"restaurant_id": input.RestaurantID,
	})
	return review, nil
}

func (s *reviewService) UpdateReview(userID, reviewID uint, input UpdateReviewInput) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !isSelf(userID, review.UserID) {
		logger.Warn("Review update forbidden", map[string]interface{}{
			"review_id": reviewID,
			"actor_id":  userID,
			"author_id": review.UserID,
		})
		return nil, ErrForbidden
	}

	ratingChanged := false
	if input.Rating != nil && *input.Rating != review.Rating {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = *input.Rating
		ratingChanged = true
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	// Recompute only when the rating value actually changed.
	if ratingChanged {
		if err := s.recomputeRestaurantRating(review.RestaurantID); err != nil {
			return review, ErrRatingSync
		}
	}
	return review, nil
}

func (s *reviewService) DeleteReview(actorID uint, role model.UserRole, reviewID uint) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if !canModerate(actorID, role, review.UserID) {
		logger.Warn("Review delete forbidden", map[string]interface{}{
			"review_id": reviewID,
			"actor_id":  actorID,
		})
		return ErrForbidden
	}

	// Capture the restaurant before the review disappears.
	restaurantID := review.RestaurantID

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":     reviewID,
		"restaurant_id": restaurantID,
		"actor_id":      actorID,
	})

	if err := s.recomputeRestaurantRating(restaurantID); err != nil {
		return ErrRatingSync
	}
	return nil
}

func (s *reviewService) GetReviewByID(reviewID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	s.populateLikeCount(review)
	return review, nil
}

func (s *reviewService) GetRestaurantReviews(restaurantID uint, rating, limit, offset int) ([]model.Review, int64, error) {
	reviews, total, err := s.reviewRepo.FindByRestaurantID(restaurantID, rating, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range reviews {
		s.populateLikeCount(&reviews[i])
	}
	return reviews, total, nil
}

func (s *reviewService) GetUserReviews(userID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		s.populateLikeCount(&reviews[i])
	}
	return reviews, nil
}

// ToggleLike likes the review for the caller, or removes the caller's
// existing like. Returns whether the review ends up liked.
func (s *reviewService) ToggleLike(userID, reviewID uint) (bool, error) {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrReviewNotFound
		}
		return false, err
	}

	liked, err := s.reviewRepo.HasLiked(reviewID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.reviewRepo.RemoveLike(reviewID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.reviewRepo.AddLike(reviewID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *reviewService) AddReply(userID, reviewID uint, text string) (*model.ReviewReply, error) {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	reply := &model.ReviewReply{
		ReviewID: reviewID,
		UserID:   userID,
		Text:     text,
	}
	if err := s.reviewRepo.AddReply(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// AddPhoto attaches an already-uploaded image URL to the caller's review.
func (s *reviewService) AddPhoto(userID, reviewID uint, url string) (*model.ReviewPhoto, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !isSelf(userID, review.UserID) {
		return nil, ErrForbidden
	}

	photo := &model.ReviewPhoto{
		ReviewID: reviewID,
		URL:      url,
	}
	if err := s.reviewRepo.AddPhoto(photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// recomputeRestaurantRating re-reads every review of the restaurant and
// rewrites the denormalized aggregate in one update. Re-running against an
// unchanged review set yields the same aggregate.
func (s *reviewService) recomputeRestaurantRating(restaurantID uint) error {
	ratings, err := s.reviewRepo.RatingsForRestaurant(restaurantID)
	if err != nil {
		logger.Error("Failed to read reviews for rating recompute", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return err
	}

	var aggregate model.Ratings
	aggregate.Count = len(ratings)

	sum := 0
	for _, rating := range ratings {
		sum += rating
		switch rating {
		case 1:
			aggregate.Distribution.One++
		case 2:
			aggregate.Distribution.Two++
		case 3:
			aggregate.Distribution.Three++
		case 4:
			aggregate.Distribution.Four++
		case 5:
			aggregate.Distribution.Five++
		}
	}
	if aggregate.Count > 0 {
		aggregate.Average = float64(sum) / float64(aggregate.Count)
	}

	if err := s.restaurantRepo.UpdateRatings(restaurantID, aggregate); err != nil {
		return err
	}

	logger.Debug("Restaurant rating aggregate recomputed", map[string]interface{}{
		"restaurant_id": restaurantID,
		"average":       aggregate.Average,
		"count":         aggregate.Count,
	})
	return nil
}

func (s *reviewService) populateLikeCount(review *model.Review) {
	count, err := s.reviewRepo.CountLikes(review.ID)
	if err != nil {
		logger.Warn("Failed to count review likes", map[string]interface{}{
			"review_id": review.ID,
		})
		return
	}
	review.LikeCount = int(count)
}

// deliveredOrder finds a delivered order from the restaurant, which makes
// the review order verified. An order not yet flagged as reviewed is
// preferred so the flag can be set on it.
func (s *reviewService) deliveredOrder(userID, restaurantID uint) *model.Order {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil
	}

	var delivered *model.Order
	for i := range orders {
		if orders[i].RestaurantID != restaurantID || orders[i].Status != model.OrderStatusDelivered {
			continue
		}
		if !orders[i].IsReviewed {
			return &orders[i]
		}
		if delivered == nil {
			delivered = &orders[i]
		}
	}
	return delivered
}
