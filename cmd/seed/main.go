package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected columns: name, description, price, image, restaurant,
// category, available, preparation_time, tags (comma separated)
const minColumns = 6

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	menuRepo := repository.NewMenuRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, err := readMenuItemsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total menu items to import: %d\n", len(items))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := menuRepo.BulkCreate(items, batchSize); err != nil {
		log.Fatal("Failed to bulk create menu items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total menu items imported: %d\n", len(items))
}

func readMenuItemsFromXLSX(filePath string) ([]model.MenuItem, error) {
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

	var items []model.MenuItem
	seen := make(map[string]bool) // name+restaurant dedup
	skippedCount := 0
	invalidCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < minColumns {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceRaw := strings.TrimSpace(row[2])
		image := strings.TrimSpace(row[3])
		restaurant := strings.TrimSpace(row[4])
		category := model.MenuCategory(strings.ToLower(strings.TrimSpace(row[5])))

		if name == "" || restaurant == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceRaw, 64)
		if err != nil || price <= 0 {
			invalidCount++
			continue
		}

		if !category.IsValid() {
			invalidCount++
			continue
		}

		key := strings.ToLower(name) + "|" + strings.ToLower(restaurant)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		item := model.MenuItem{
			Name:        name,
			Description: description,
			Price:       price,
			Image:       image,
			Restaurant:  restaurant,
			Category:    category,
			Available:   true,
		}

		// Optional columns
		if len(row) > 6 {
			if avail := strings.ToLower(strings.TrimSpace(row[6])); avail != "" {
				item.Available = avail == "true" || avail == "yes" || avail == "1"
			}
		}
		if len(row) > 7 {
			if prep, err := strconv.Atoi(strings.TrimSpace(row[7])); err == nil && prep >= 5 && prep <= 120 {
				item.PreparationTime = prep
			}
		}
		if len(row) > 8 {
			tags := parseTags(row[8])
			if len(tags) > model.MaxMenuItemTags {
				tags = tags[:model.MaxMenuItemTags]
			}
			item.Tags = tags
		}

		items = append(items, item)
	}

	fmt.Printf("Skipped rows: %d, invalid rows: %d\n", skippedCount, invalidCount)

	return items, nil
}

func parseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
