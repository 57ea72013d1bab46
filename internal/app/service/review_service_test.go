package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/db"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.Restaurant) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	reviewService := NewReviewService(reviewRepo, restaurantRepo, orderRepo)

	user := &model.User{
		Email:        "reviewer@example.com",
		Phone:        "9830000001",
		PasswordHash: "hash",
		Name:         "Test Reviewer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	owner := &model.User{
		Email:        "owner@example.com",
		Phone:        "9830000002",
		PasswordHash: "hash",
		Name:         "Test Owner",
		Role:         model.RoleRestaurantOwner,
	}
	testDB.Create(owner)

	restaurant := &model.Restaurant{
		Name:        "Noodle House",
		Description: "Hand pulled noodles",
		Category:    model.CategoryDiningOut,
		CoverImage:  "https://cdn.example.com/noodles.jpg",
		Street:      "5 Brigade Road",
		Area:        "Central",
		City:        "Bengaluru",
		State:       "Karnataka",
		Pincode:     "560001",
		Phone:       "9876500000",
		CostForTwo:  400,
		OwnerID:     owner.ID,
		IsActive:    true,
	}
	testDB.Create(restaurant)

	return reviewService, testDB, user, restaurant
}

func newReviewer(t *testing.T, testDB *gorm.DB, n int) *model.User {
	t.Helper()
	user := &model.User{
		Email:        fmt.Sprintf("reviewer%d@example.com", n),
		Phone:        fmt.Sprintf("98300001%02d", n),
		PasswordHash: "hash",
		Name:         fmt.Sprintf("Reviewer %d", n),
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func restaurantRatings(t *testing.T, testDB *gorm.DB, id uint) model.Ratings {
	t.Helper()
	var restaurant model.Restaurant
	require.NoError(t, testDB.First(&restaurant, id).Error)
	return restaurant.Ratings
}

func TestReviewService_CreateReview_UpdatesAggregate(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Title:        "Great noodles",
		Comment:      "Fresh and fast.",
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.False(t, review.OrderVerified)

	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 1, ratings.Count)
	assert.Equal(t, 4.0, ratings.Average)
	assert.Equal(t, 1, ratings.Distribution.Four)
}

func TestReviewService_CreateReview_AggregateAcrossReviewers(t *testing.T) {
	reviewService, testDB, _, restaurant := setupReviewServiceTest(t)

	scores := []int{5, 4, 4, 2}
	for i, score := range scores {
		reviewer := newReviewer(t, testDB, i)
		_, err := reviewService.CreateReview(reviewer.ID, CreateReviewInput{
			RestaurantID: restaurant.ID,
			Rating:       score,
			Comment:      "nice",
		})
		require.NoError(t, err)
	}

	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 4, ratings.Count)
	// (5+4+4+2)/4 = 3.75, stored exactly
	assert.InDelta(t, 3.75, ratings.Average, 1e-9)
	assert.Equal(t, 1, ratings.Distribution.Two)
	assert.Equal(t, 2, ratings.Distribution.Four)
	assert.Equal(t, 1, ratings.Distribution.Five)
	sum := ratings.Distribution.One + ratings.Distribution.Two + ratings.Distribution.Three +
		ratings.Distribution.Four + ratings.Distribution.Five
	assert.Equal(t, ratings.Count, sum)
}

func TestReviewService_GetRestaurantReviews_FilterAndPaginate(t *testing.T) {
	reviewService, testDB, _, restaurant := setupReviewServiceTest(t)

	scores := []int{5, 4, 4, 2}
	for i, score := range scores {
		reviewer := newReviewer(t, testDB, i)
		_, err := reviewService.CreateReview(reviewer.ID, CreateReviewInput{
			RestaurantID: restaurant.ID,
			Rating:       score,
			Comment:      "nice",
		})
		require.NoError(t, err)
	}

	all, total, err := reviewService.GetRestaurantReviews(restaurant.ID, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, int64(4), total)

	fours, total, err := reviewService.GetRestaurantReviews(restaurant.ID, 4, 0, 0)
	require.NoError(t, err)
	assert.Len(t, fours, 2)
	assert.Equal(t, int64(2), total)
	for _, review := range fours {
		assert.Equal(t, 4, review.Rating)
	}

	// The total counts every match even when the page is smaller.
	page, total, err := reviewService.GetRestaurantReviews(restaurant.ID, 0, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, int64(4), total)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewService, _, user, restaurant := setupReviewServiceTest(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := reviewService.CreateReview(user.ID, CreateReviewInput{
			RestaurantID: restaurant.ID,
			Rating:       rating,
			Comment:      "x",
		})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
}

func TestReviewService_CreateReview_DuplicateRejected(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       5,
		Comment:      "first visit",
	})
	require.NoError(t, err)

	_, err = reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       1,
		Comment:      "second visit",
	})
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)

	// The rejected review must not disturb the aggregate.
	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 1, ratings.Count)
	assert.Equal(t, 5.0, ratings.Average)
}

func TestReviewService_CreateReview_OrderVerified(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	order := &model.Order{
		UserID:        user.ID,
		RestaurantID:  restaurant.ID,
		Subtotal:      100,
		Tax:           5,
		Total:         145,
		AddressLine1:  "42 Residency Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560025",
		PaymentMethod: model.PaymentMethodCash,
		Status:        model.OrderStatusDelivered,
	}
	require.NoError(t, testDB.Create(order).Error)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       5,
		Comment:      "ordered twice already",
	})
	require.NoError(t, err)
	assert.True(t, review.OrderVerified)

	// The delivered order carries the reviewed flag afterwards.
	var reloaded model.Order
	require.NoError(t, testDB.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.IsReviewed)
}

func TestReviewService_UpdateReview_RatingChangeRecomputes(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       2,
		Comment:      "meh",
	})
	require.NoError(t, err)

	newRating := 5
	updated, err := reviewService.UpdateReview(user.ID, review.ID, UpdateReviewInput{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 5.0, ratings.Average)
	assert.Equal(t, 0, ratings.Distribution.Two)
	assert.Equal(t, 1, ratings.Distribution.Five)
}

func TestReviewService_UpdateReview_OnlyAuthor(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       3,
		Comment:      "ok",
	})
	require.NoError(t, err)

	other := newReviewer(t, testDB, 99)
	newRating := 1
	_, err = reviewService.UpdateReview(other.ID, review.ID, UpdateReviewInput{Rating: &newRating})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewService_DeleteReview_ResetsAggregateWhenLast(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Comment:      "solid",
	})
	require.NoError(t, err)

	require.NoError(t, reviewService.DeleteReview(user.ID, model.RoleUser, review.ID))

	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 0, ratings.Count)
	assert.Equal(t, 0.0, ratings.Average)
	assert.Equal(t, 0, ratings.Distribution.Four)
}

func TestReviewService_DeleteReview_AllowsReReview(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	first, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       2,
		Comment:      "had a bad night",
	})
	require.NoError(t, err)
	require.NoError(t, reviewService.DeleteReview(user.ID, model.RoleUser, first.ID))

	second, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       5,
		Comment:      "gave it another shot",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	ratings := restaurantRatings(t, testDB, restaurant.ID)
	assert.Equal(t, 1, ratings.Count)
	assert.Equal(t, 5.0, ratings.Average)
}

func TestReviewService_DeleteReview_AdminCanModerate(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       1,
		Comment:      "spam",
	})
	require.NoError(t, err)

	admin := &model.User{Email: "admin@example.com", Phone: "9830000099", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin}
	require.NoError(t, testDB.Create(admin).Error)

	require.NoError(t, reviewService.DeleteReview(admin.ID, model.RoleAdmin, review.ID))

	_, err = reviewService.GetReviewByID(review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_DeleteReview_StrangerForbidden(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Comment:      "fine",
	})
	require.NoError(t, err)

	other := newReviewer(t, testDB, 7)
	err = reviewService.DeleteReview(other.ID, model.RoleUser, review.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewService_ToggleLike(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Comment:      "tasty",
	})
	require.NoError(t, err)

	liker := newReviewer(t, testDB, 1)

	liked, err := reviewService.ToggleLike(liker.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = reviewService.ToggleLike(liker.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestReviewService_AddReply(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Comment:      "tasty",
	})
	require.NoError(t, err)

	replier := newReviewer(t, testDB, 2)
	reply, err := reviewService.AddReply(replier.ID, review.ID, "Glad you liked it!")
	require.NoError(t, err)
	assert.NotZero(t, reply.ID)
	assert.Equal(t, "Glad you liked it!", reply.Text)

	got, err := reviewService.GetReviewByID(review.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)
}

func TestReviewService_AddPhoto_AuthorOnly(t *testing.T) {
	reviewService, testDB, user, restaurant := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, CreateReviewInput{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Comment:      "great plating",
	})
	require.NoError(t, err)

	photo, err := reviewService.AddPhoto(user.ID, review.ID, "https://cdn.example.com/plate.jpg")
	require.NoError(t, err)
	assert.NotZero(t, photo.ID)

	got, err := reviewService.GetReviewByID(review.ID)
	require.NoError(t, err)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "https://cdn.example.com/plate.jpg", got.Photos[0].URL)

	other := newReviewer(t, testDB, 3)
	_, err = reviewService.AddPhoto(other.ID, review.ID, "https://cdn.example.com/other.jpg")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = reviewService.AddPhoto(user.ID, 9999, "https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
