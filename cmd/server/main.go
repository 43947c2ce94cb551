package main

import (
	"context"
	"log"
	"os"

	"github.com/logicspark/logicspark/internal/buildinfo"
	"github.com/logicspark/logicspark/internal/server"
	"github.com/logicspark/logicspark/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
