package service

import (
	"errors"
	"sort"
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"github.com/forkspot/forkspot-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrNotRestaurantOwner = errors.New("only restaurant owners can create restaurants")
)

type MenuItemInput struct {
	CategoryName string
	Name         string
	Description  string
	Price        float64
	Image        string
	IsVeg        *bool
	IsAvailable  *bool
	Tags         []string
}

// NearbyRestaurant pairs a restaurant with its distance from the query
// point, in kilometres.
type NearbyRestaurant struct {
	model.Restaurant
	DistanceKm float64 `json:"distance_km"`
}

type RestaurantService interface {
	CreateRestaurant(actorID uint, role model.UserRole, restaurant *model.Restaurant) (*model.Restaurant, error)
	UpdateRestaurant(actorID uint, role model.UserRole, restaurantID uint, update *model.Restaurant) (*model.Restaurant, error)
	DeleteRestaurant(actorID uint, role model.UserRole, restaurantID uint) error
	GetRestaurantByID(restaurantID uint, viewerID uint) (*model.Restaurant, error)
	ListRestaurants(filter repository.RestaurantFilter) ([]model.Restaurant, int64, error)
	ListOwnerRestaurants(ownerID uint) ([]model.Restaurant, error)
	FindNearby(lat, lon, radiusKm float64) ([]NearbyRestaurant, error)
	GetCollections() (map[string][]model.Restaurant, error)
	SearchSuggestions(prefix string) ([]model.Restaurant, error)

	AddMenuItem(actorID uint, role model.UserRole, restaurantID uint, input MenuItemInput) (*model.MenuItem, error)
	UpdateMenuItem(actorID uint, role model.UserRole, restaurantID, itemID uint, input MenuItemInput) (*model.MenuItem, error)
	DeleteMenuItem(actorID uint, role model.UserRole, restaurantID, itemID uint) error

	AddImage(actorID uint, role model.UserRole, restaurantID uint, url string) (*model.RestaurantImage, error)
	DeleteImage(actorID uint, role model.UserRole, restaurantID, imageID uint) error
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	activityRepo   repository.ActivityRepository
}

func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	activityRepo repository.ActivityRepository,
) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		activityRepo:   activityRepo,
	}
}

func (s *restaurantService) CreateRestaurant(actorID uint, role model.UserRole, restaurant *model.Restaurant) (*model.Restaurant, error) {
	if role != model.RoleRestaurantOwner && role != model.RoleAdmin {
		return nil, ErrNotRestaurantOwner
	}

	restaurant.OwnerID = actorID
	restaurant.IsActive = true
	restaurant.Ratings = model.Ratings{}

	if err := s.restaurantRepo.Create(restaurant); err != nil {
		return nil, err
	}

	logger.Info("Restaurant created", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
		"owner_id":      actorID,
	})
	return restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(actorID uint, role model.UserRole, restaurantID uint, update *model.Restaurant) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}

	if update.Name != "" {
		restaurant.Name = update.Name
	}
	if update.Description != "" {
		restaurant.Description = update.Description
	}
	if update.Cuisines != nil {
		restaurant.Cuisines = update.Cuisines
	}
	if update.Category != "" {
		restaurant.Category = update.Category
	}
	if update.CoverImage != "" {
		restaurant.CoverImage = update.CoverImage
	}
	if update.Street != "" {
		restaurant.Street = update.Street
	}
	if update.Area != "" {
		restaurant.Area = update.Area
	}
	if update.City != "" {
		restaurant.City = update.City
	}
	if update.State != "" {
		restaurant.State = update.State
	}
	if update.Pincode != "" {
		restaurant.Pincode = update.Pincode
	}
	if update.Landmark != "" {
		restaurant.Landmark = update.Landmark
	}
	if update.Latitude != nil {
		restaurant.Latitude = update.Latitude
	}
	if update.Longitude != nil {
		restaurant.Longitude = update.Longitude
	}
	if update.Phone != "" {
		restaurant.Phone = update.Phone
	}
	if update.Email != "" {
		restaurant.Email = update.Email
	}
	if update.Website != "" {
		restaurant.Website = update.Website
	}
	if update.Hours != nil {
		restaurant.Hours = update.Hours
	}
	if update.CostForTwo > 0 {
		restaurant.CostForTwo = update.CostForTwo
	}
	if update.PopularDishes != nil {
		restaurant.PopularDishes = update.PopularDishes
	}
	restaurant.Features = update.Features

	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) DeleteRestaurant(actorID uint, role model.UserRole, restaurantID uint) error {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return ErrForbidden
	}

	if err := s.restaurantRepo.Delete(restaurantID); err != nil {
		return err
	}

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": restaurantID,
		"actor_id":      actorID,
	})
	return nil
}

// GetRestaurantByID loads the restaurant with its menu. A non-zero viewerID
// records the visit in the viewer's recently viewed list; failures there are
// logged and ignored.
func (s *restaurantService) GetRestaurantByID(restaurantID uint, viewerID uint) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if viewerID != 0 {
		if err := s.activityRepo.RecordView(viewerID, restaurantID); err != nil {
			logger.Warn("Failed to record restaurant view", map[string]interface{}{
				"user_id":       viewerID,
				"restaurant_id": restaurantID,
			})
		}
	}
	return restaurant, nil
}

func (s *restaurantService) ListRestaurants(filter repository.RestaurantFilter) ([]model.Restaurant, int64, error) {
	return s.restaurantRepo.FindAll(filter)
}

func (s *restaurantService) ListOwnerRestaurants(ownerID uint) ([]model.Restaurant, error) {
	return s.restaurantRepo.FindByOwnerID(ownerID)
}

func (s *restaurantService) FindNearby(lat, lon, radiusKm float64) ([]NearbyRestaurant, error) {
	if radiusKm <= 0 {
		radiusKm = 5
	}

	candidates, err := s.restaurantRepo.FindWithLocation()
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyRestaurant, 0)
	for _, restaurant := range candidates {
		distance := util.CalculateDistance(lat, lon, *restaurant.Latitude, *restaurant.Longitude)
		if distance <= radiusKm {
			nearby = append(nearby, NearbyRestaurant{
				Restaurant: restaurant,
				DistanceKm: distance,
			})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	logger.Debug("Nearby restaurants resolved", map[string]interface{}{
		"candidates": len(candidates),
		"matched":    len(nearby),
		"radius_km":  radiusKm,
	})
	return nearby, nil
}

// GetCollections returns the curated home-page groups.
func (s *restaurantService) GetCollections() (map[string][]model.Restaurant, error) {
	collections := make(map[string][]model.Restaurant)

	trending, _, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{
		SortBy: "rating", MinRating: 4, Limit: 10,
	})
	if err != nil {
		return nil, err
	}
	collections["trending"] = trending

	best, _, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{
		SortBy: "rating", Limit: 10,
	})
	if err != nil {
		return nil, err
	}
	collections["best"] = best

	budget, _, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{
		SortBy: "cost_low", MaxCost: 500, Limit: 10,
	})
	if err != nil {
		return nil, err
	}
	collections["budget"] = budget

	all, _, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{Limit: 50})
	if err != nil {
		return nil, err
	}
	newlyOpened := make([]model.Restaurant, 0, 10)
	cutoff := time.Now().AddDate(0, -3, 0)
	for _, restaurant := range all {
		if restaurant.CreatedAt.After(cutoff) {
			newlyOpened = append(newlyOpened, restaurant)
			if len(newlyOpened) == 10 {
				break
			}
		}
	}
	collections["newly_opened"] = newlyOpened

	return collections, nil
}

func (s *restaurantService) SearchSuggestions(prefix string) ([]model.Restaurant, error) {
	if prefix == "" {
		return []model.Restaurant{}, nil
	}
	return s.restaurantRepo.SearchNames(prefix, 8)
}

// AddMenuItem creates the item under the named category, creating the
// category on demand.
func (s *restaurantService) AddMenuItem(actorID uint, role model.UserRole, restaurantID uint, input MenuItemInput) (*model.MenuItem, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}

	category, err := s.restaurantRepo.FindMenuCategory(restaurantID, input.CategoryName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = &model.MenuCategory{
			RestaurantID: restaurantID,
			Name:         input.CategoryName,
		}
		if err := s.restaurantRepo.CreateMenuCategory(category); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		CategoryID:  category.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		IsVeg:       true,
		IsAvailable: true,
		Tags:        input.Tags,
	}
	if input.IsVeg != nil {
		item.IsVeg = *input.IsVeg
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	if err := s.restaurantRepo.CreateMenuItem(item); err != nil {
		return nil, err
	}

	logger.Info("Menu item added", map[string]interface{}{
		"restaurant_id": restaurantID,
		"item_id":       item.ID,
		"category":      input.CategoryName,
	})
	return item, nil
}

func (s *restaurantService) UpdateMenuItem(actorID uint, role model.UserRole, restaurantID, itemID uint, input MenuItemInput) (*model.MenuItem, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}

	item, err := s.restaurantRepo.FindMenuItem(restaurantID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Price > 0 {
		item.Price = input.Price
	}
	if input.Image != "" {
		item.Image = input.Image
	}
	if input.IsVeg != nil {
		item.IsVeg = *input.IsVeg
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}

	if err := s.restaurantRepo.UpdateMenuItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMenuItem removes the item, then removes its category if nothing is
// left under it.
func (s *restaurantService) DeleteMenuItem(actorID uint, role model.UserRole, restaurantID, itemID uint) error {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return ErrForbidden
	}

	item, err := s.restaurantRepo.FindMenuItem(restaurantID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	if err := s.restaurantRepo.DeleteMenuItem(itemID); err != nil {
		return err
	}

	remaining, err := s.restaurantRepo.CountMenuItems(item.CategoryID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.restaurantRepo.DeleteMenuCategory(item.CategoryID); err != nil {
			return err
		}
	}

	logger.Info("Menu item deleted", map[string]interface{}{
		"restaurant_id": restaurantID,
		"item_id":       itemID,
	})
	return nil
}

func (s *restaurantService) AddImage(actorID uint, role model.UserRole, restaurantID uint, url string) (*model.RestaurantImage, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}

	image := &model.RestaurantImage{
		RestaurantID: restaurantID,
		URL:          url,
		UploadedByID: actorID,
	}
	if err := s.restaurantRepo.AddImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *restaurantService) DeleteImage(actorID uint, role model.UserRole, restaurantID, imageID uint) error {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return ErrForbidden
	}
	return s.restaurantRepo.DeleteImage(restaurantID, imageID)
}
