package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/db"
	"github.com/forkspot/forkspot-backend/pkg/util"
)

// Expected sheet layout (first row is the header):
//
//	0 name | 1 category | 2 cuisines | 3 description | 4 street | 5 area
//	6 city | 7 state | 8 pincode | 9 phone | 10 cost_for_two
//	11 latitude | 12 longitude | 13 cover_image
const expectedColumns = 14

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [owner_email]")
	}

	filePath := os.Args[1]
	ownerEmail := "seed@forkspot.local"
	if len(os.Args) > 2 {
		ownerEmail = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())

	owner, err := findOrCreateSeedOwner(userRepo, ownerEmail)
	if err != nil {
		log.Fatal("Failed to resolve seed owner:", err)
	}
	fmt.Printf("Importing restaurants under owner %s (id=%d)\n", owner.Email, owner.ID)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	restaurants, err := readRestaurantsFromXLSX(filePath, owner.ID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(restaurants))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := restaurantRepo.BulkCreate(restaurants, batchSize); err != nil {
		log.Fatal("Failed to bulk create restaurants:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total restaurants imported: %d\n", len(restaurants))
}

func findOrCreateSeedOwner(userRepo repository.UserRepository, email string) (*model.User, error) {
	owner, err := userRepo.FindByEmail(email)
	if err == nil {
		return owner, nil
	}

	password, err := util.HashPassword(util.GenerateConfirmationCode(16))
	if err != nil {
		return nil, err
	}

	owner = &model.User{
		Name:         "Forkspot Imports",
		Email:        email,
		Phone:        "0000000000",
		PasswordHash: password,
		Role:         model.RoleRestaurantOwner,
		IsVerified:   true,
	}
	if err := userRepo.Create(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

var validCategories = map[string]model.RestaurantCategory{
	"order-online":     model.CategoryOrderOnline,
	"dining-out":       model.CategoryDiningOut,
	"pro-and-pro-plus": model.CategoryProPlus,
	"night-life":       model.CategoryNightLife,
}

func readRestaurantsFromXLSX(filePath string, ownerID uint) ([]model.Restaurant, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var restaurants []model.Restaurant
	seen := make(map[string]bool)
	skippedCount := 0
	invalidCoordCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < expectedColumns {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		categoryStr := strings.TrimSpace(row[1])
		cuisinesStr := strings.TrimSpace(row[2])
		description := strings.TrimSpace(row[3])
		street := strings.TrimSpace(row[4])
		area := strings.TrimSpace(row[5])
		city := strings.TrimSpace(row[6])
		state := strings.TrimSpace(row[7])
		pincode := strings.TrimSpace(row[8])
		phone := strings.TrimSpace(row[9])
		costStr := strings.TrimSpace(row[10])
		latStr := strings.TrimSpace(row[11])
		lngStr := strings.TrimSpace(row[12])
		coverImage := strings.TrimSpace(row[13])

		if name == "" || city == "" || street == "" {
			skippedCount++
			continue
		}
		if !isValidRestaurantName(name) {
			skippedCount++
			continue
		}

		category, ok := validCategories[categoryStr]
		if !ok {
			category = model.CategoryDiningOut
		}

		costForTwo, err := strconv.ParseFloat(costStr, 64)
		if err != nil || costForTwo <= 0 {
			skippedCount++
			continue
		}

		// Coordinates are optional; nearby search just skips rows without them.
		var latitude, longitude *float64
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil && lat != 0 && lng != 0 {
			latitude = &lat
			longitude = &lng
		} else if latStr != "" || lngStr != "" {
			invalidCoordCount++
		}

		var cuisines model.StringArray
		for _, c := range strings.Split(cuisinesStr, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cuisines = append(cuisines, c)
			}
		}

		if description == "" {
			description = fmt.Sprintf("%s in %s, %s", name, area, city)
		}

		key := fmt.Sprintf("%s|%s|%s", name, city, street)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		restaurants = append(restaurants, model.Restaurant{
			Name:        name,
			Description: description,
			Cuisines:    cuisines,
			Category:    category,
			CoverImage:  coverImage,
			Street:      street,
			Area:        area,
			City:        city,
			State:       state,
			Pincode:     pincode,
			Phone:       phone,
			CostForTwo:  costForTwo,
			Latitude:    latitude,
			Longitude:   longitude,
			OwnerID:     ownerID,
			IsActive:    true,
		})

		if len(restaurants)%500 == 0 {
			fmt.Printf("Processed %d restaurants...\n", len(restaurants))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid restaurants: %d\n", len(restaurants))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid coordinates: %d\n", invalidCoordCount)

	return restaurants, nil
}

func isValidRestaurantName(name string) bool {
	if len([]rune(name)) < 3 {
		return false
	}

	numOnly := regexp.MustCompile(`^[0-9]+$`)
	if numOnly.MatchString(name) {
		return false
	}

	specialOnly := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	return !specialOnly.MatchString(name)
}
