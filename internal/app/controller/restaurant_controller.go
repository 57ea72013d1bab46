package controller

import (
	"net/http"
	"strconv"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{
		restaurantService: restaurantService,
	}
}

type RestaurantRequest struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description" binding:"required"`
	Cuisines      []string           `json:"cuisines" binding:"required,min=1"`
	Category      string             `json:"category" binding:"required,oneof=order-online dining-out pro-and-pro-plus night-life"`
	CoverImage    string             `json:"cover_image" binding:"required"`
	Street        string             `json:"street" binding:"required"`
	Area          string             `json:"area" binding:"required"`
	City          string             `json:"city" binding:"required"`
	State         string             `json:"state" binding:"required"`
	Pincode       string             `json:"pincode" binding:"required,len=6,numeric"`
	Landmark      string             `json:"landmark"`
	Latitude      *float64           `json:"latitude"`
	Longitude     *float64           `json:"longitude"`
	Phone         string             `json:"phone" binding:"required"`
	Email         string             `json:"email" binding:"omitempty,email"`
	Website       string             `json:"website"`
	Hours         model.WeeklyHours  `json:"hours"`
	CostForTwo    float64            `json:"cost_for_two" binding:"required,gt=0"`
	PopularDishes []string           `json:"popular_dishes"`
	Features      model.Features     `json:"features"`
}

type UpdateRestaurantRequest struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Cuisines      []string          `json:"cuisines"`
	Category      string            `json:"category" binding:"omitempty,oneof=order-online dining-out pro-and-pro-plus night-life"`
	CoverImage    string            `json:"cover_image"`
	Street        string            `json:"street"`
	Area          string            `json:"area"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	Pincode       string            `json:"pincode" binding:"omitempty,len=6,numeric"`
	Landmark      string            `json:"landmark"`
	Latitude      *float64          `json:"latitude"`
	Longitude     *float64          `json:"longitude"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email" binding:"omitempty,email"`
	Website       string            `json:"website"`
	Hours         model.WeeklyHours `json:"hours"`
	CostForTwo    float64           `json:"cost_for_two"`
	PopularDishes []string          `json:"popular_dishes"`
	Features      model.Features    `json:"features"`
}

type MenuItemRequest struct {
	CategoryName string   `json:"category_name" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Image        string   `json:"image"`
	IsVeg        *bool    `json:"is_veg"`
	IsAvailable  *bool    `json:"is_available"`
	Tags         []string `json:"tags"`
}

type UpdateMenuItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"omitempty,gt=0"`
	Image       string   `json:"image"`
	IsVeg       *bool    `json:"is_veg"`
	IsAvailable *bool    `json:"is_available"`
	Tags        []string `json:"tags"`
}

type AddImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Create registers a new restaurant
// POST /api/v1/restaurants
func (ctrl *RestaurantController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, err := ctrl.restaurantService.CreateRestaurant(userID, role, &model.Restaurant{
		Name:          req.Name,
		Description:   req.Description,
		Cuisines:      req.Cuisines,
		Category:      model.RestaurantCategory(req.Category),
		CoverImage:    req.CoverImage,
		Street:        req.Street,
		Area:          req.Area,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Landmark:      req.Landmark,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Phone:         req.Phone,
		Email:         req.Email,
		Website:       req.Website,
		Hours:         req.Hours,
		CostForTwo:    req.CostForTwo,
		PopularDishes: pq.StringArray(req.PopularDishes),
		Features:      req.Features,
	})
	if err != nil {
		if err == service.ErrNotRestaurantOwner {
			errors.Forbidden(c, "Only restaurant owners can create restaurants")
			return
		}
		log.Error("Failed to create restaurant", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to create restaurant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"restaurant": restaurant,
	})
}

// List returns restaurants matching the query filters
// GET /api/v1/restaurants
func (ctrl *RestaurantController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	minRating, _ := strconv.ParseFloat(c.Query("min_rating"), 64)
	maxCost, _ := strconv.ParseFloat(c.Query("max_cost"), 64)

	filter := repository.RestaurantFilter{
		Category:  c.Query("category"),
		City:      c.Query("city"),
		Cuisine:   c.Query("cuisine"),
		Search:    c.Query("search"),
		MinRating: minRating,
		MaxCost:   maxCost,
		VegOnly:   c.Query("veg_only") == "true",
		SortBy:    c.Query("sort"),
		Limit:     limit,
		Offset:    offset,
	}

	restaurants, total, err := ctrl.restaurantService.ListRestaurants(filter)
	if err != nil {
		errors.InternalError(c, "Failed to fetch restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"count":       len(restaurants),
		"total":       total,
	})
}

// GetByID returns one restaurant with its menu
// GET /api/v1/restaurants/:id
func (ctrl *RestaurantController) GetByID(c *gin.Context) {
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Guests get a zero viewer ID; their visit is not recorded.
	viewerID, _ := middleware.GetUserID(c)

	restaurant, err := ctrl.restaurantService.GetRestaurantByID(restaurantID, viewerID)
	if err != nil {
		if err == service.ErrRestaurantNotFound {
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
			return
		}
		errors.InternalError(c, "Failed to fetch restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// Update edits a restaurant's details
// PUT /api/v1/restaurants/:id
func (ctrl *RestaurantController) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, err := ctrl.restaurantService.UpdateRestaurant(userID, role, restaurantID, &model.Restaurant{
		Name:          req.Name,
		Description:   req.Description,
		Cuisines:      req.Cuisines,
		Category:      model.RestaurantCategory(req.Category),
		CoverImage:    req.CoverImage,
		Street:        req.Street,
		Area:          req.Area,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Landmark:      req.Landmark,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Phone:         req.Phone,
		Email:         req.Email,
		Website:       req.Website,
		Hours:         req.Hours,
		CostForTwo:    req.CostForTwo,
		PopularDishes: pq.StringArray(req.PopularDishes),
		Features:      req.Features,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this restaurant")
		default:
			errors.InternalError(c, "Failed to update restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// Delete removes a restaurant
// DELETE /api/v1/restaurants/:id
func (ctrl *RestaurantController) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteRestaurant(userID, role, restaurantID); err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot delete this restaurant")
		default:
			errors.InternalError(c, "Failed to delete restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted",
	})
}

// MyRestaurants lists restaurants owned by the caller
// GET /api/v1/restaurants/mine
func (ctrl *RestaurantController) MyRestaurants(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	restaurants, err := ctrl.restaurantService.ListOwnerRestaurants(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// Nearby returns restaurants within a radius of a point
// GET /api/v1/restaurants/nearby?lat=..&lng=..&radius=..
func (ctrl *RestaurantController) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "lat and lng are required")
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "5"), 64)

	nearby, err := ctrl.restaurantService.FindNearby(lat, lng, radius)
	if err != nil {
		errors.InternalError(c, "Failed to search nearby restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": nearby,
		"count":       len(nearby),
	})
}

// Collections returns the curated home-page restaurant groups
// GET /api/v1/restaurants/collections
func (ctrl *RestaurantController) Collections(c *gin.Context) {
	collections, err := ctrl.restaurantService.GetCollections()
	if err != nil {
		errors.InternalError(c, "Failed to build collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
	})
}

// Suggestions returns typeahead restaurant matches
// GET /api/v1/restaurants/suggestions?q=..
func (ctrl *RestaurantController) Suggestions(c *gin.Context) {
	suggestions, err := ctrl.restaurantService.SearchSuggestions(c.Query("q"))
	if err != nil {
		errors.InternalError(c, "Failed to fetch suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// AddMenuItem adds an item to the restaurant's menu
// POST /api/v1/restaurants/:id/menu
func (ctrl *RestaurantController) AddMenuItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid menu item data")
		return
	}

	item, err := ctrl.restaurantService.AddMenuItem(userID, role, restaurantID, service.MenuItemInput{
		CategoryName: req.CategoryName,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Image:        req.Image,
		IsVeg:        req.IsVeg,
		IsAvailable:  req.IsAvailable,
		Tags:         req.Tags,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this menu")
		default:
			errors.InternalError(c, "Failed to add menu item")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateMenuItem edits a menu item
// PUT /api/v1/restaurants/:id/menu/:itemId
func (ctrl *RestaurantController) UpdateMenuItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid menu item data")
		return
	}

	item, err := ctrl.restaurantService.UpdateMenuItem(userID, role, restaurantID, itemID, service.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		IsVeg:       req.IsVeg,
		IsAvailable: req.IsAvailable,
		Tags:        req.Tags,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrMenuItemNotFound:
			errors.NotFound(c, errors.MenuItemNotFound, "Menu item not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this menu")
		default:
			errors.InternalError(c, "Failed to update menu item")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// DeleteMenuItem removes a menu item
// DELETE /api/v1/restaurants/:id/menu/:itemId
func (ctrl *RestaurantController) DeleteMenuItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteMenuItem(userID, role, restaurantID, itemID); err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrMenuItemNotFound:
			errors.NotFound(c, errors.MenuItemNotFound, "Menu item not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this menu")
		default:
			errors.InternalError(c, "Failed to delete menu item")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted",
	})
}

// AddImage registers an uploaded gallery image
// POST /api/v1/restaurants/:id/images
func (ctrl *RestaurantController) AddImage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid image data")
		return
	}

	image, err := ctrl.restaurantService.AddImage(userID, role, restaurantID, req.URL)
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this restaurant")
		default:
			errors.InternalError(c, "Failed to add image")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image": image,
	})
}

// DeleteImage removes a gallery image
// DELETE /api/v1/restaurants/:id/images/:imageId
func (ctrl *RestaurantController) DeleteImage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteImage(userID, role, restaurantID, imageID); err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this restaurant")
		default:
			errors.InternalError(c, "Failed to delete image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted",
	})
}
