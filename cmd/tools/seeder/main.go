package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-loja/internal/app"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/money"
	"github.com/noah-isme/backend-loja/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := app.NewPGXPool(ctx, dbURL, "loja-seeder")
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	defer pool.Close()

	if err := app.RunMigrations(migrations.FS, dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := catalog.NewRepo(pool)

	seedSettings(ctx, repo)
	seedCatalog(ctx, repo)

	log.Println("Seeding completed successfully!")
}

func seedSettings(ctx context.Context, repo *catalog.Repo) {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("SEED_ADMIN_PASSWORD not set, using default password 'admin'")
	}
	hash, err := app.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	settings := catalog.Settings{
		StoreName:         "Doceria da Ana",
		WhatsAppNumber:    "5511999999999",
		AdminPasswordHash: hash,
		PrimaryColor:      "#e91e63",
		SecondaryColor:    "#fff3f7",
	}
	if err := repo.UpsertSettings(ctx, settings); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}
	log.Println("Seeded store settings")
}

func seedCatalog(ctx context.Context, repo *catalog.Repo) {
	doces, err := repo.CreateCategory(ctx, catalog.Category{Name: "Doces"})
	if err != nil {
		log.Fatalf("Failed to seed category: %v", err)
	}
	roupas, err := repo.CreateCategory(ctx, catalog.Category{Name: "Roupas"})
	if err != nil {
		log.Fatalf("Failed to seed category: %v", err)
	}

	products := []catalog.Product{
		{
			CategoryID:  doces.ID,
			Name:        "Bolo",
			Price:       money.MustParse("25.00"),
			Description: "Bolo caseiro de chocolate",
			Size:        "Único",
		},
		{
			CategoryID:  doces.ID,
			Name:        "Brigadeiro",
			Price:       money.MustParse("3.50"),
			Description: "Caixa com 4 unidades",
		},
		{
			CategoryID: roupas.ID,
			Name:       "Camiseta",
			Variants: []catalog.Variant{
				{ID: "camiseta-p", Name: "P", Price: money.MustParse("45.00")},
				{ID: "camiseta-m", Name: "M", Price: money.MustParse("45.00")},
				{ID: "camiseta-g", Name: "G", Price: money.MustParse("49.90")},
			},
		},
	}
	for _, p := range products {
		if _, err := repo.CreateProduct(ctx, p); err != nil {
			log.Fatalf("Failed to seed product %q: %v", p.Name, err)
		}
	}
	log.Printf("Seeded %d products", len(products))
}
