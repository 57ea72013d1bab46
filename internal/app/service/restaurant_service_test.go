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

func setupRestaurantServiceTest(t *testing.T) (RestaurantService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	restaurantRepo := repository.NewRestaurantRepository(testDB)
	activityRepo := repository.NewActivityRepository(testDB)
	restaurantService := NewRestaurantService(restaurantRepo, activityRepo)

	owner := &model.User{
		Email:        "owner@example.com",
		Phone:        "9840000001",
		PasswordHash: "hash",
		Name:         "Test Owner",
		Role:         model.RoleRestaurantOwner,
	}
	testDB.Create(owner)

	return restaurantService, testDB, owner
}

func sampleRestaurant(name, city string, cost float64) *model.Restaurant {
	return &model.Restaurant{
		Name:        name,
		Description: "A place to eat",
		Category:    model.CategoryDiningOut,
		CoverImage:  "https://cdn.example.com/cover.jpg",
		Street:      "1 Main Street",
		Area:        "Central",
		City:        city,
		State:       "Karnataka",
		Pincode:     "560001",
		Phone:       "9876500000",
		CostForTwo:  cost,
	}
}

func TestRestaurantService_CreateRestaurant(t *testing.T) {
	restaurantService, _, owner := setupRestaurantServiceTest(t)

	created, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Curry Leaf", "Bengaluru", 500))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.True(t, created.IsActive)

	// New restaurants start without any rating history.
	assert.Equal(t, 0, created.Ratings.Count)
	assert.Equal(t, 0.0, created.Ratings.Average)
}

func TestRestaurantService_CreateRestaurant_PlainUserForbidden(t *testing.T) {
	restaurantService, testDB, _ := setupRestaurantServiceTest(t)

	user := &model.User{Email: "u@example.com", Phone: "9840000002", PasswordHash: "hash", Name: "U", Role: model.RoleUser}
	testDB.Create(user)

	_, err := restaurantService.CreateRestaurant(user.ID, model.RoleUser,
		sampleRestaurant("Sneaky Diner", "Bengaluru", 300))
	assert.ErrorIs(t, err, ErrNotRestaurantOwner)
}

func TestRestaurantService_UpdateRestaurant_OnlyOwnerOrAdmin(t *testing.T) {
	restaurantService, testDB, owner := setupRestaurantServiceTest(t)

	created, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Curry Leaf", "Bengaluru", 500))
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", Phone: "9840000003", PasswordHash: "hash", Name: "Other", Role: model.RoleRestaurantOwner}
	testDB.Create(other)

	_, err = restaurantService.UpdateRestaurant(other.ID, model.RoleRestaurantOwner, created.ID,
		&model.Restaurant{Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := restaurantService.UpdateRestaurant(owner.ID, model.RoleRestaurantOwner, created.ID,
		&model.Restaurant{Name: "Curry Leaf Express"})
	require.NoError(t, err)
	assert.Equal(t, "Curry Leaf Express", updated.Name)

	admin := &model.User{Email: "admin@example.com", Phone: "9840000004", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin}
	testDB.Create(admin)
	updated, err = restaurantService.UpdateRestaurant(admin.ID, model.RoleAdmin, created.ID,
		&model.Restaurant{Description: "Renovated"})
	require.NoError(t, err)
	assert.Equal(t, "Renovated", updated.Description)
}

func TestRestaurantService_ListRestaurants_Filters(t *testing.T) {
	restaurantService, _, owner := setupRestaurantServiceTest(t)

	for i, spec := range []struct {
		name string
		city string
		cost float64
	}{
		{"Budget Bites", "Bengaluru", 300},
		{"Mid Range", "Bengaluru", 700},
		{"Fine Dining", "Mumbai", 2400},
	} {
		_, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
			sampleRestaurant(fmt.Sprintf("%s %d", spec.name, i), spec.city, spec.cost))
		require.NoError(t, err)
	}

	all, total, err := restaurantService.ListRestaurants(repository.RestaurantFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	byCity, total, err := restaurantService.ListRestaurants(repository.RestaurantFilter{City: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Mumbai", byCity[0].City)

	cheap, _, err := restaurantService.ListRestaurants(repository.RestaurantFilter{MaxCost: 500})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, float64(300), cheap[0].CostForTwo)

	bySearch, _, err := restaurantService.ListRestaurants(repository.RestaurantFilter{Search: "budget"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 1)

	paged, total, err := restaurantService.ListRestaurants(repository.RestaurantFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 2)
}

func TestRestaurantService_ListRestaurants_ExcludesInactive(t *testing.T) {
	restaurantService, testDB, owner := setupRestaurantServiceTest(t)

	created, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Closed Down", "Bengaluru", 400))
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&model.Restaurant{}).Where("id = ?", created.ID).
		Update("is_active", false).Error)

	_, total, err := restaurantService.ListRestaurants(repository.RestaurantFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRestaurantService_FindNearby(t *testing.T) {
	restaurantService, _, owner := setupRestaurantServiceTest(t)

	near := sampleRestaurant("Around The Corner", "Bengaluru", 400)
	nearLat, nearLng := 12.9720, 77.5950
	near.Latitude, near.Longitude = &nearLat, &nearLng

	far := sampleRestaurant("Other End Of Town", "Bengaluru", 400)
	farLat, farLng := 13.1986, 77.7066
	far.Latitude, far.Longitude = &farLat, &farLng

	noCoords := sampleRestaurant("Unmapped", "Bengaluru", 400)

	for _, r := range []*model.Restaurant{near, far, noCoords} {
		_, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner, r)
		require.NoError(t, err)
	}

	results, err := restaurantService.FindNearby(12.9716, 77.5946, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Around The Corner", results[0].Name)
	assert.Less(t, results[0].DistanceKm, 5.0)
}

func TestRestaurantService_GetRestaurantByID_RecordsView(t *testing.T) {
	restaurantService, testDB, owner := setupRestaurantServiceTest(t)

	created, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Viewed Place", "Bengaluru", 400))
	require.NoError(t, err)

	viewer := &model.User{Email: "viewer@example.com", Phone: "9840000005", PasswordHash: "hash", Name: "Viewer", Role: model.RoleUser}
	testDB.Create(viewer)

	_, err = restaurantService.GetRestaurantByID(created.ID, viewer.ID)
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.RecentlyViewed{}).Where("user_id = ?", viewer.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Guests (zero viewer ID) do not leave a trail.
	_, err = restaurantService.GetRestaurantByID(created.ID, 0)
	require.NoError(t, err)
	testDB.Model(&model.RecentlyViewed{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRestaurantService_MenuLifecycle(t *testing.T) {
	restaurantService, _, owner := setupRestaurantServiceTest(t)

	created, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Menu Masters", "Bengaluru", 500))
	require.NoError(t, err)

	item, err := restaurantService.AddMenuItem(owner.ID, model.RoleRestaurantOwner, created.ID, MenuItemInput{
		CategoryName: "Starters",
		Name:         "Gobi Manchurian",
		Price:        120,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.True(t, item.IsAvailable)

	// Adding to the same category reuses it.
	second, err := restaurantService.AddMenuItem(owner.ID, model.RoleRestaurantOwner, created.ID, MenuItemInput{
		CategoryName: "Starters",
		Name:         "Paneer Tikka",
		Price:        160,
	})
	require.NoError(t, err)
	assert.Equal(t, item.CategoryID, second.CategoryID)

	got, err := restaurantService.GetRestaurantByID(created.ID, 0)
	require.NoError(t, err)
	require.Len(t, got.Menu, 1)
	assert.Len(t, got.Menu[0].Items, 2)

	newPrice := MenuItemInput{Name: "Gobi Manchurian Dry", Price: 130}
	updated, err := restaurantService.UpdateMenuItem(owner.ID, model.RoleRestaurantOwner, created.ID, item.ID, newPrice)
	require.NoError(t, err)
	assert.Equal(t, "Gobi Manchurian Dry", updated.Name)
	assert.Equal(t, float64(130), updated.Price)

	// Deleting the last item of a category removes the category too.
	require.NoError(t, restaurantService.DeleteMenuItem(owner.ID, model.RoleRestaurantOwner, created.ID, item.ID))
	require.NoError(t, restaurantService.DeleteMenuItem(owner.ID, model.RoleRestaurantOwner, created.ID, second.ID))

	got, err = restaurantService.GetRestaurantByID(created.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got.Menu, 0)
}

func TestRestaurantService_MenuItem_ScopedToRestaurant(t *testing.T) {
	restaurantService, testDB, owner := setupRestaurantServiceTest(t)

	victim, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Victim Kitchen", "Bengaluru", 500))
	require.NoError(t, err)
	item, err := restaurantService.AddMenuItem(owner.ID, model.RoleRestaurantOwner, victim.ID, MenuItemInput{
		CategoryName: "Mains",
		Name:         "Thali",
		Price:        180,
	})
	require.NoError(t, err)

	// A second owner with their own restaurant cannot reach the item
	// through their own restaurant id.
	rival := &model.User{Email: "rival@example.com", Phone: "9840000006", PasswordHash: "hash", Name: "Rival", Role: model.RoleRestaurantOwner}
	testDB.Create(rival)
	mine, err := restaurantService.CreateRestaurant(rival.ID, model.RoleRestaurantOwner,
		sampleRestaurant("Rival Kitchen", "Bengaluru", 500))
	require.NoError(t, err)

	_, err = restaurantService.UpdateMenuItem(rival.ID, model.RoleRestaurantOwner, mine.ID, item.ID, MenuItemInput{Price: 1})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	err = restaurantService.DeleteMenuItem(rival.ID, model.RoleRestaurantOwner, mine.ID, item.ID)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	// The item is untouched.
	reloaded, err := restaurantService.UpdateMenuItem(owner.ID, model.RoleRestaurantOwner, victim.ID, item.ID, MenuItemInput{})
	require.NoError(t, err)
	assert.Equal(t, float64(180), reloaded.Price)
}

func TestRestaurantService_SearchSuggestions(t *testing.T) {
	restaurantService, _, owner := setupRestaurantServiceTest(t)

	for _, name := range []string{"Pizza Palace", "Pizza Corner", "Burger Barn"} {
		_, err := restaurantService.CreateRestaurant(owner.ID, model.RoleRestaurantOwner,
			sampleRestaurant(name, "Bengaluru", 450))
		require.NoError(t, err)
	}

	suggestions, err := restaurantService.SearchSuggestions("Pizza")
	require.NoError(t, err)
	assert.Len(t, suggestions, 2)
}
