package main

import (
	"context"
	"errors"
	"log"

	"ship-consultant-be/internal/bootstrap"
	"ship-consultant-be/internal/config"
	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/service"
	"ship-consultant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Starter catalog for development environments. Production catalogs are
// loaded through the ship API.
var ships = []dto.CreateShipRequest{
	{Name: "Aurora MR", Slug: "aurora-mr", Manufacturer: "RSI", Focus: "Starter", Type: "Light Fighter", CargoCapacity: 0, CrewMin: 1, CrewMax: 1, PriceUSD: 30, Description: "An entry-level ship with balanced weapons and a small footprint, ideal for new pilots learning combat basics."},
	{Name: "Avenger Titan", Slug: "avenger-titan", Manufacturer: "Aegis", Focus: "Starter", Type: "Light Freight", CargoCapacity: 8, CrewMin: 1, CrewMax: 1, PriceUSD: 60, Description: "A versatile starter that mixes respectable firepower with a modest cargo hold, popular for early trading runs."},
	{Name: "Gladius", Slug: "gladius", Manufacturer: "Aegis", Focus: "Combat", Type: "Light Fighter", CargoCapacity: 0, CrewMin: 1, CrewMax: 1, PriceUSD: 90, Description: "A fast, agile dogfighter. No cargo, no compromises, pure air superiority in a nimble single-seat frame."},
	{Name: "Cutlass Black", Slug: "cutlass-black", Manufacturer: "Drake", Focus: "Multi-role", Type: "Medium Fighter", CargoCapacity: 46, CrewMin: 1, CrewMax: 3, PriceUSD: 110, Description: "The workhorse of the verse. Decent guns, decent cargo, room for a small crew. Does a bit of everything."},
	{Name: "Freelancer MAX", Slug: "freelancer-max", Manufacturer: "MISC", Focus: "Freight", Type: "Medium Freight", CargoCapacity: 120, CrewMin: 2, CrewMax: 4, PriceUSD: 150, Description: "A dedicated hauler that trades gun mounts for cargo grid. The go-to choice for serious trade loops."},
	{Name: "Constellation Andromeda", Slug: "constellation-andromeda", Manufacturer: "RSI", Focus: "Multi-role", Type: "Medium Freight", CargoCapacity: 96, CrewMin: 3, CrewMax: 5, PriceUSD: 240, Description: "A multi-crew gunship with serious cargo capacity and a snub fighter in the belly. The classic crew ship."},
	{Name: "Vulture", Slug: "vulture", Manufacturer: "Drake", Focus: "Salvage", Type: "Light Industrial", CargoCapacity: 12, CrewMin: 1, CrewMax: 1, PriceUSD: 175, Description: "A solo salvage rig. Strip hulls, compact the scrap, and sell it. Slow but steadily profitable."},
	{Name: "Prospector", Slug: "prospector", Manufacturer: "MISC", Focus: "Mining", Type: "Light Industrial", CargoCapacity: 32, CrewMin: 1, CrewMax: 1, PriceUSD: 155, Description: "The standard single-seat mining ship. Crack rocks, fill the saddlebags, head home."},
	{Name: "Carrack", Slug: "carrack", Manufacturer: "Anvil", Focus: "Exploration", Type: "Large Expedition", CargoCapacity: 456, CrewMin: 4, CrewMax: 6, PriceUSD: 600, Description: "A legendary expedition vessel with medbay, repair bay, drone ops and a rover garage. Built for the deep black."},
	{Name: "600i Explorer", Slug: "600i-explorer", Manufacturer: "Origin", Focus: "Exploration", Type: "Large Touring", CargoCapacity: 40, CrewMin: 2, CrewMax: 5, PriceUSD: 475, Description: "Luxury exploration. Long range scanners and a rover bay wrapped in an elegant touring hull."},
	{Name: "Hammerhead", Slug: "hammerhead", Manufacturer: "Aegis", Focus: "Combat", Type: "Corvette", CargoCapacity: 40, CrewMin: 6, CrewMax: 9, PriceUSD: 725, Description: "A gun-bristling escort corvette. Six manned turrets make it the anti-fighter screen for any fleet."},
	{Name: "Caterpillar", Slug: "caterpillar", Manufacturer: "Drake", Focus: "Freight", Type: "Heavy Freight", CargoCapacity: 576, CrewMin: 3, CrewMax: 5, PriceUSD: 330, Description: "A modular heavy hauler with a detachable command pod. Maximum cargo per credit in the Drake tradition."},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	container := bootstrap.NewContainer(db, cfg)

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	log.Println("Seeding Ship Catalog...")

	ctx := context.Background()
	created, skipped := 0, 0
	for i := range ships {
		req := ships[i]
		if _, err := container.ShipService.Create(ctx, &req); err != nil {
			if errors.Is(err, service.ErrShipSlugTaken) {
				log.Printf("%s Ship '%s' already exists, skipping...", yellow("SKIP"), req.Name)
				skipped++
				continue
			}
			log.Printf("%s Failed to create ship '%s': %v", red("FAIL"), req.Name, err)
			continue
		}
		log.Printf("%s Created ship: %s (%s)", green("OK"), req.Name, req.Slug)
		created++
	}

	log.Printf("✅ Catalog seeding completed: %d created, %d skipped", created, skipped)
}
