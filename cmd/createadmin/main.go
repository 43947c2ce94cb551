// Command createadmin creates the admin account or resets its password.
//
//	createadmin -username admin -email admin@logicspark.com
//
// Database settings are read the same way the server reads them.
package main

import (
	"context"
	"log"
	"os"

	"github.com/logicspark/logicspark/internal/server"
	"github.com/logicspark/logicspark/internal/server/config"
	"github.com/logicspark/logicspark/internal/server/provision"
)

func main() {
	opts, err := provision.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	password, err := provision.ReadPassword(os.Stdin, int(os.Stdin.Fd()), os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	db, m, err := server.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	authSvc, _, err := server.NewAuthService(db, m, cfg, server.NewLogger(cfg))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := provision.Run(ctx, authSvc, opts, password, os.Stdout); err != nil {
		db.Close()
		log.Fatalf("provision admin: %v", err)
	}
}
