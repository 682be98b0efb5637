package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/models"
)

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	localFile := flag.String("file", "", "Load products from a local CSV file instead of the built-in catalog")
	remoteURL := flag.String("url", "", "Download the products CSV from this URL")
	replace := flag.Bool("replace", true, "Delete existing products before loading")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	products := database.DefaultProducts
	var reader io.Reader
	switch {
	case *localFile != "":
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open local file: %v", err)
		}
		defer file.Close()
		reader = file
		log.Printf("Reading from local file: %s", *localFile)
	case *remoteURL != "":
		log.Printf("Downloading products from: %s", *remoteURL)
		resp, err := http.Get(*remoteURL)
		if err != nil {
			log.Fatalf("Failed to download products: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Fatalf("Failed to download: HTTP %d", resp.StatusCode)
		}
		reader = resp.Body
	default:
		log.Println("Using the built-in product catalog")
	}

	if reader != nil {
		parsed, err := parseProducts(reader)
		if err != nil {
			log.Fatalf("Failed to parse products: %v", err)
		}
		products = parsed
	}

	log.Printf("Found %d products to import", len(products))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(products, 20)
		return
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required to seed products")
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	n, err := db.InsertProducts(ctx, products, *replace)
	if err != nil {
		log.Fatalf("Failed to import products: %v", err)
	}

	total, err := db.CountProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	log.Printf("Import complete: %d products loaded, %d in catalog", n, total)
}

// parseProducts reads CSV with a header naming at least name and price_inr.
// brand, category, unit and stock are optional columns.
func parseProducts(reader io.Reader) ([]models.CreateProductRequest, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	// Read header
	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	nameCol, ok := colMap["name"]
	if !ok {
		return nil, fmt.Errorf("CSV header has no name column")
	}
	priceCol, ok := colMap["price_inr"]
	if !ok {
		if priceCol, ok = colMap["price"]; !ok {
			return nil, fmt.Errorf("CSV header has no price_inr column")
		}
	}

	field := func(record []string, col string) string {
		i, ok := colMap[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []models.CreateProductRequest
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}
		if nameCol >= len(record) || priceCol >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceCol]), 64)
		if name == "" || err != nil || price < 0 {
			log.Printf("Warning: skipping row %q: missing name or bad price", name)
			continue
		}

		stock, _ := strconv.Atoi(field(record, "stock"))
		products = append(products, models.CreateProductRequest{
			Name:     name,
			Brand:    field(record, "brand"),
			Category: field(record, "category"),
			PriceINR: price,
			Unit:     field(record, "unit"),
			Stock:    stock,
		})
	}

	return products, nil
}

func printPreview(products []models.CreateProductRequest, limit int) {
	for i, p := range products {
		if i >= limit {
			fmt.Printf("... and %d more\n", len(products)-limit)
			return
		}
		fmt.Printf("  %-35s %-12s %-10s ₹%.2f\n", p.Name, p.Brand, p.Category, p.PriceINR)
	}
}
