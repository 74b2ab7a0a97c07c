package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/carlaabellana/ElCofre/config"
	"github.com/carlaabellana/ElCofre/internal/cart"
	"github.com/carlaabellana/ElCofre/internal/registry"
	"github.com/carlaabellana/ElCofre/internal/store"
	"github.com/carlaabellana/ElCofre/internal/ui"
	"github.com/carlaabellana/ElCofre/internal/util"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	console := ui.NewConsole(os.Stdin, os.Stdout)
	console.ShowBanner()

	remote := store.NewRemote(cfg.Remote.BaseURL, cfg.Remote.GroupID, cfg.Remote.Timeout)
	if remote.Reachable(context.Background()) {
		console.Show("Starting program...\n")
	} else {
		console.Show("Error: The API isn’t available.\n")
	}

	local, err := store.NewLocal(cfg.Files.ProductsPath, cfg.Files.ShopsPath)
	if err != nil {
		console.Show("\n\nVerifying local files...\nError: The products.json file can’t be accessed.\n\nShutting down...\n")
		util.SyncLogger()
		os.Exit(1)
	}

	dual := store.NewDual(local, remote)

	products, err := registry.NewProductRegistry(dual)
	if err != nil {
		fatal(err)
	}
	shops, err := registry.NewShopRegistry(dual)
	if err != nil {
		fatal(err)
	}

	dealer := registry.NewDealer(products, shops)
	engine := cart.NewEngine(products, shops)

	controller := ui.NewController(console, products, shops, dealer, engine)
	controller.Run(context.Background())
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	util.SyncLogger()
	os.Exit(1)
}
