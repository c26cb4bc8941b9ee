// Command token mints a bearer token for the registration endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"purchase-registry/internal/config"
	"purchase-registry/internal/infra/api"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	identity := flag.String("identity", "", "subject of the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *identity == "" {
		log.Fatal("-identity is required")
	}

	// dev relaxes the database requirement; the secret must still be set
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is not set")
	}

	tok, err := api.NewAuthManager(cfg.Auth.JWTSecret, *ttl).Mint(*identity)
	if err != nil {
		log.Fatalf("mint: %v", err)
	}
	fmt.Println(tok)
}
