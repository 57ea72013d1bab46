package service

import (
	"errors"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrFavoriteNotFound = errors.New("favorite order not found")
)

type UpdateProfileInput struct {
	Name         *string
	Phone        *string
	ProfileImage *string
	Bio          *string
}

type UserService interface {
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)

	AddAddress(userID uint, address *model.Address) (*model.Address, error)
	GetAddresses(userID uint) ([]model.Address, error)
	UpdateAddress(userID, addressID uint, update *model.Address) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error

	Follow(followerID, followingID uint) error
	Unfollow(followerID, followingID uint) error
	GetFollowers(userID uint) ([]model.User, error)
	GetFollowing(userID uint) ([]model.User, error)

	ToggleBookmark(userID, restaurantID uint) (bool, error)
	GetBookmarks(userID uint) ([]model.Bookmark, error)
	GetRecentlyViewed(userID uint) ([]model.RecentlyViewed, error)

	SaveFavoriteOrder(userID, orderID uint) (*model.FavoriteOrder, error)
	RemoveFavoriteOrder(userID, favoriteID uint) error
	GetFavoriteOrders(userID uint) ([]model.FavoriteOrder, error)
}

type userService struct {
	userRepo     repository.UserRepository
	addressRepo  repository.AddressRepository
	activityRepo repository.ActivityRepository
	orderRepo    repository.OrderRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	activityRepo repository.ActivityRepository,
	orderRepo repository.OrderRepository,
) UserService {
	return &userService{
		userRepo:     userRepo,
		addressRepo:  addressRepo,
		activityRepo: activityRepo,
		orderRepo:    orderRepo,
	}
}

func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

// AddAddress saves a new address. The user's first address becomes the
// default automatically; an explicit default demotes the others.
func (s *userService) AddAddress(userID uint, address *model.Address) (*model.Address, error) {
	address.UserID = userID

	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		address.IsDefault = true
	}

	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	if address.IsDefault && count > 0 {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
	}
	return address, nil
}

func (s *userService) GetAddresses(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *userService) UpdateAddress(userID, addressID uint, update *model.Address) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if !isSelf(userID, address.UserID) {
		return nil, ErrForbidden
	}

	if update.Label != "" {
		address.Label = update.Label
	}
	if update.AddressLine1 != "" {
		address.AddressLine1 = update.AddressLine1
	}
	if update.AddressLine2 != "" {
		address.AddressLine2 = update.AddressLine2
	}
	if update.City != "" {
		address.City = update.City
	}
	if update.State != "" {
		address.State = update.State
	}
	if update.Pincode != "" {
		address.Pincode = update.Pincode
	}
	if update.Landmark != "" {
		address.Landmark = update.Landmark
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes the address. When the default is removed, the most
// recent remaining address is promoted.
func (s *userService) DeleteAddress(userID, addressID uint) error {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	if !isSelf(userID, address.UserID) {
		return ErrForbidden
	}

	wasDefault := address.IsDefault
	if err := s.addressRepo.Delete(addressID); err != nil {
		return err
	}

	if wasDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.addressRepo.SetDefault(userID, remaining[0].ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *userService) SetDefaultAddress(userID, addressID uint) error {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	if !isSelf(userID, address.UserID) {
		return ErrForbidden
	}
	return s.addressRepo.SetDefault(userID, addressID)
}

func (s *userService) Follow(followerID, followingID uint) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if _, err := s.userRepo.FindByID(followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	already, err := s.userRepo.IsFollowing(followerID, followingID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	if err := s.userRepo.Follow(followerID, followingID); err != nil {
		return err
	}

	logger.Info("User followed", map[string]interface{}{
		"follower_id":  followerID,
		"following_id": followingID,
	})
	return nil
}

func (s *userService) Unfollow(followerID, followingID uint) error {
	return s.userRepo.Unfollow(followerID, followingID)
}

func (s *userService) GetFollowers(userID uint) ([]model.User, error) {
	return s.userRepo.FindFollowers(userID)
}

func (s *userService) GetFollowing(userID uint) ([]model.User, error) {
	return s.userRepo.FindFollowing(userID)
}

// ToggleBookmark saves or removes the restaurant from the user's bookmarks.
// Returns whether the restaurant ends up bookmarked.
func (s *userService) ToggleBookmark(userID, restaurantID uint) (bool, error) {
	bookmarked, err := s.activityRepo.IsBookmarked(userID, restaurantID)
	if err != nil {
		return false, err
	}

	if bookmarked {
		if err := s.activityRepo.RemoveBookmark(userID, restaurantID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.activityRepo.AddBookmark(userID, restaurantID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *userService) GetBookmarks(userID uint) ([]model.Bookmark, error) {
	return s.activityRepo.FindBookmarks(userID)
}

func (s *userService) GetRecentlyViewed(userID uint) ([]model.RecentlyViewed, error) {
	return s.activityRepo.FindRecentlyViewed(userID)
}

// SaveFavoriteOrder snapshots one of the user's past orders for quick
// reordering.
func (s *userService) SaveFavoriteOrder(userID, orderID uint) (*model.FavoriteOrder, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isSelf(userID, order.UserID) {
		return nil, ErrForbidden
	}

	items := make(model.FavoriteItems, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.FavoriteItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	favorite := &model.FavoriteOrder{
		UserID:       userID,
		RestaurantID: order.RestaurantID,
		Items:        items,
		TotalPrice:   order.Total,
	}
	if err := s.activityRepo.AddFavoriteOrder(favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *userService) RemoveFavoriteOrder(userID, favoriteID uint) error {
	return s.activityRepo.RemoveFavoriteOrder(userID, favoriteID)
}

func (s *userService) GetFavoriteOrders(userID uint) ([]model.FavoriteOrder, error) {
	return s.activityRepo.FindFavoriteOrders(userID)
}
