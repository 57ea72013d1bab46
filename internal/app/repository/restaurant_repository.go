package repository

import (
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

type RestaurantFilter struct {
	Category    string
	City        string
	Cuisine     string
	Search      string
	MinRating   float64
	MaxCost     float64
	VegOnly     bool
	SortBy      string // "rating" | "cost_low" | "cost_high" | name default
	Limit       int
	Offset      int
	IncludeMenu bool
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	Update(restaurant *model.Restaurant) error
	UpdateRatings(restaurantID uint, ratings model.Ratings) error
	Delete(id uint) error
	FindByID(id uint, includeMenu bool) (*model.Restaurant, error)
	FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error)
	FindByOwnerID(ownerID uint) ([]model.Restaurant, error)
	FindWithLocation() ([]model.Restaurant, error)
	SearchNames(prefix string, limit int) ([]model.Restaurant, error)

	FindMenuCategory(restaurantID uint, name string) (*model.MenuCategory, error)
	CreateMenuCategory(category *model.MenuCategory) error
	DeleteMenuCategory(id uint) error
	CountMenuItems(categoryID uint) (int64, error)
	CreateMenuItem(item *model.MenuItem) error
	FindMenuItem(restaurantID, itemID uint) (*model.MenuItem, error)
	UpdateMenuItem(item *model.MenuItem) error
	DeleteMenuItem(id uint) error

	AddImage(image *model.RestaurantImage) error
	DeleteImage(restaurantID, imageID uint) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) preloadMenu(db *gorm.DB) *gorm.DB {
	return db.Preload("Menu", func(db *gorm.DB) *gorm.DB {
		return db.Order("menu_categories.position ASC")
	}).Preload("Menu.Items").Preload("Images")
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name":     restaurant.Name,
		"city":     restaurant.City,
		"owner_id": restaurant.OwnerID,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name":     restaurant.Name,
			"owner_id": restaurant.OwnerID,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return nil
}

func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	if len(restaurants) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}

	logger.Info("Bulk created restaurants", map[string]interface{}{
		"count": len(restaurants),
	})
	return nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	if err := r.db.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}
	return nil
}

// UpdateRatings writes the full aggregate in one UPDATE so readers never see
// a partially applied recomputation.
func (r *restaurantRepository) UpdateRatings(restaurantID uint, ratings model.Ratings) error {
	logger.Debug("Updating restaurant ratings in database", map[string]interface{}{
		"restaurant_id": restaurantID,
		"average":       ratings.Average,
		"count":         ratings.Count,
	})

	err := r.db.Model(&model.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]interface{}{
			"rating_average": ratings.Average,
			"rating_count":   ratings.Count,
			"rating_one":     ratings.Distribution.One,
			"rating_two":     ratings.Distribution.Two,
			"rating_three":   ratings.Distribution.Three,
			"rating_four":    ratings.Distribution.Four,
			"rating_five":    ratings.Distribution.Five,
		}).Error
	if err != nil {
		logger.Error("Failed to update restaurant ratings in database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) Delete(id uint) error {
	logger.Debug("Deleting restaurant from database", map[string]interface{}{
		"restaurant_id": id,
	})

	if err := r.db.Delete(&model.Restaurant{}, id).Error; err != nil {
		logger.Error("Failed to delete restaurant from database", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) FindByID(id uint, includeMenu bool) (*model.Restaurant, error) {
	query := r.db.Preload("Owner")
	if includeMenu {
		query = r.preloadMenu(query)
	}

	var restaurant model.Restaurant
	if err := query.First(&restaurant, id).Error; err != nil {
		logger.Error("Failed to find restaurant by ID in database", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"category": filter.Category,
		"city":     filter.City,
		"search":   filter.Search,
	})

	query := r.db.Model(&model.Restaurant{}).Where("is_active = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Cuisine != "" {
		// Cuisines is a JSON array column; a substring match on the quoted
		// value is sufficient for exact cuisine names.
		query = query.Where("cuisines LIKE ?", "%\""+filter.Cuisine+"\"%")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating_average >= ?", filter.MinRating)
	}
	if filter.MaxCost > 0 {
		query = query.Where("cost_for_two <= ?", filter.MaxCost)
	}
	if filter.VegOnly {
		query = query.Where("id IN (?)", r.db.Model(&model.MenuItem{}).
			Select("menu_categories.restaurant_id").
			Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
			Where("menu_items.is_veg = ?", true))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count restaurants", err)
		return nil, 0, err
	}

	switch filter.SortBy {
	case "rating":
		query = query.Order("rating_average DESC")
	case "cost_low":
		query = query.Order("cost_for_two ASC")
	case "cost_high":
		query = query.Order("cost_for_two DESC")
	default:
		query = query.Order("name ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if filter.IncludeMenu {
		query = r.preloadMenu(query)
	}

	var restaurants []model.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err, map[string]interface{}{
			"category": filter.Category,
			"city":     filter.City,
		})
		return nil, 0, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
		"total": total,
	})
	return restaurants, total, nil
}

func (r *restaurantRepository) FindByOwnerID(ownerID uint) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&restaurants).Error
	if err != nil {
		logger.Error("Failed to find restaurants by owner in database", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return restaurants, nil
}

// FindWithLocation returns active restaurants that carry coordinates, for
// distance filtering in the service layer.
func (r *restaurantRepository) FindWithLocation() ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	err := r.db.Where("is_active = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", true).
		Find(&restaurants).Error
	if err != nil {
		logger.Error("Failed to find restaurants with location in database", err)
		return nil, err
	}
	return restaurants, nil
}

func (r *restaurantRepository) SearchNames(prefix string, limit int) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	err := r.db.Select("id", "name", "city", "cover_image", "rating_average").
		Where("is_active = ? AND name LIKE ?", true, prefix+"%").
		Order("rating_average DESC").
		Limit(limit).
		Find(&restaurants).Error
	if err != nil {
		logger.Error("Failed to search restaurant names in database", err, map[string]interface{}{
			"prefix": prefix,
		})
		return nil, err
	}
	return restaurants, nil
}

func (r *restaurantRepository) FindMenuCategory(restaurantID uint, name string) (*model.MenuCategory, error) {
	var category model.MenuCategory
	err := r.db.Where("restaurant_id = ? AND name = ?", restaurantID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *restaurantRepository) CreateMenuCategory(category *model.MenuCategory) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create menu category in database", err, map[string]interface{}{
			"restaurant_id": category.RestaurantID,
			"name":          category.Name,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) DeleteMenuCategory(id uint) error {
	if err := r.db.Delete(&model.MenuCategory{}, id).Error; err != nil {
		logger.Error("Failed to delete menu category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) CountMenuItems(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.MenuItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *restaurantRepository) CreateMenuItem(item *model.MenuItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"category_id": item.CategoryID,
			"name":        item.Name,
		})
		return err
	}
	return nil
}

// FindMenuItem resolves the item through its category so the lookup never
// crosses restaurant boundaries.
func (r *restaurantRepository) FindMenuItem(restaurantID, itemID uint) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Where("menu_items.id = ? AND menu_categories.restaurant_id = ?", itemID, restaurantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *restaurantRepository) UpdateMenuItem(item *model.MenuItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update menu item in database", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) DeleteMenuItem(id uint) error {
	if err := r.db.Delete(&model.MenuItem{}, id).Error; err != nil {
		logger.Error("Failed to delete menu item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) AddImage(image *model.RestaurantImage) error {
	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to add restaurant image in database", err, map[string]interface{}{
			"restaurant_id": image.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) DeleteImage(restaurantID, imageID uint) error {
	if err := r.db.Where("id = ? AND restaurant_id = ?", imageID, restaurantID).
		Delete(&model.RestaurantImage{}).Error; err != nil {
		logger.Error("Failed to delete restaurant image from database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"image_id":      imageID,
		})
		return err
	}
	return nil
}
