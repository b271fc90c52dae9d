// Command seed_users ensures a fixed set of accounts on a Sealog
// server. Meant for provisioning a fresh install.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	"github.com/oceandatatools/sealog-relay/pkg/sealog/token"
)

func main() {
	server := flag.String("server", "", "sealog server url, like http://localhost:8000/sealog-server")
	apiToken := flag.String("token", "", "admin api token")
	seedPath := flag.String("seed", "", "seed file path")
	flag.Parse()

	if *server == "" || *apiToken == "" || *seedPath == "" {
		log.Fatal("--server, --token and --seed are all required")
	}

	if claims, err := token.Inspect(*apiToken); err != nil {
		log.Printf("warning: can not inspect the api token: %s", err)
	} else {
		if claims.Expired(time.Now()) {
			log.Fatal("the api token is expired")
		}
		if !claims.HasRole("admin") {
			log.Fatal("creating users needs an admin token")
		}
	}

	seed, err := LoadSeed(*seedPath)
	if err != nil {
		log.Fatalf("can not read the seed file: %s", err)
	}

	client, err := sealog.NewClient(*server, *apiToken)
	if err != nil {
		log.Fatalf("bad sealog server url: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	created, err := Seed(ctx, client, seed, log.Default())
	if err != nil {
		log.Fatalf("seeding failed: %s", err)
	}
	log.Printf("done. %d user(s) created.", len(created))
}
