package main

import (
	"fmt"
	"os"
	"strings"

	"library-lending/internal/config"
	"library-lending/internal/logger"
	"library-lending/library"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.New(logger.Config{Service: config.ServiceName}).Fatal("configuration rejected", "error", err)
	}
	log := cfg.Logger()

	path := cfg.SeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	var seed *library.Seed
	if path == "" {
		fmt.Println("No seed file given, using the built-in catalog.")
		seed = library.DefaultSeed()
	} else {
		fmt.Printf("Loading seed from %s...\n", path)
		seed, err = library.LoadSeed(path)
		if err != nil {
			log.Fatal("seed rejected", "path", path, "error", err)
		}
	}

	mgr, err := library.NewLibraryManager(library.ManagerConfig{DailyFine: cfg.DailyFine, Log: log})
	if err != nil {
		log.Fatal("creating library failed", "error", err)
	}
	defer mgr.Close()
	mgr.LoadSeed(seed)

	items := mgr.GetAllItems()
	patrons := mgr.GetAllPatrons()
	fmt.Printf("\nLoad complete!\n")
	fmt.Printf("Items: %d\n", len(items))
	fmt.Printf("Patrons: %d\n", len(patrons))

	if len(items) > 0 {
		fmt.Println("\nCatalog:")
		fmt.Printf("%-15s %-6s %-40s %-30s %s\n", "ID", "Type", "Title", "Creator", "Loan days")
		fmt.Println(strings.Repeat("-", 105))
		for _, it := range items {
			fmt.Printf("%-15s %-6s %-40s %-30s %d\n", it.ID(), it.Category(), library.Truncate(it.Title(), 40), library.Truncate(it.Creator(), 30), it.CheckoutPeriod())
		}
	}
	if len(patrons) > 0 {
		fmt.Println("\nMembers:")
		for _, p := range patrons {
			fmt.Printf("%-10s %s\n", p.ID(), p.Name())
		}
	}
}
