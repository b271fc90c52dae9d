// Command asnap submits an "ASNAP" event at a fixed interval while the
// server-side status variable says it should.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/oceandatatools/sealog-relay/pkg/configs/asnap"
	"github.com/oceandatatools/sealog-relay/pkg/loop"
	"github.com/oceandatatools/sealog-relay/pkg/sealog"
)

func main() {
	configPath := flag.String("config-path", "", "asnap config path")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config-path is required")
	}

	conf, err := asnap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	client, err := sealog.NewClient(conf.Sealog.URL, conf.Sealog.Token)
	if err != nil {
		log.Fatalf("bad sealog server config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("submitting ASNAP every %s while %s is on", conf.Interval, conf.StatusVar)

	_, err = loop.Start(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, loop.Next) {
		if err := snapshot(ctx, client, conf); err != nil {
			log.Printf("skipped this cycle: %s", err)
		}
		return struct{}{}, loop.Continue(conf.Interval)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("asnap loop stopped: %s", err)
	}
	log.Println("bye.")
}
