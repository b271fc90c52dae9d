// Command sealog_export builds the export tree of a cruise and pushes
// it to the data warehouse.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/oceandatatools/sealog-relay/pkg/configs/export"
	"github.com/oceandatatools/sealog-relay/pkg/export"
	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	apicruises "github.com/oceandatatools/sealog-relay/pkg/sealog/api/cruises"
	"github.com/oceandatatools/sealog-relay/pkg/transfer"
)

func main() {
	configPath := flag.String("config-path", "", "export config path")
	cruiseID := flag.String("cruise-id", "", "cruise to export. default: the cruise running now")
	dryRun := flag.Bool("dry-run", false, "let rsync report without writing at the destination")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config-path is required")
	}

	conf, err := configs.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	client, err := sealog.NewClient(conf.Sealog.URL, conf.Sealog.Token)
	if err != nil {
		log.Fatalf("bad sealog server config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	target := *cruiseID
	if target == "" {
		cruise, err := currentCruise(ctx, client, time.Now())
		if err != nil {
			log.Fatalf("can not pick the current cruise: %s", err)
		}
		target = cruise.CruiseID
		log.Printf("exporting the current cruise: %s", target)
	}

	exporter := export.NewExporter(client, conf.ExportRoot)
	dir, err := exporter.ExportCruise(ctx, target)
	if err != nil {
		log.Fatalf("export failed: %s", err)
	}
	log.Printf("export tree is ready at %s", dir)

	if conf.Warehouse == nil {
		return
	}

	options := []transfer.Option{}
	if conf.Warehouse.SSHKey != "" {
		options = append(options, transfer.WithSSHKey(conf.Warehouse.SSHKey))
	}
	if len(conf.Warehouse.ExtraArgs) != 0 {
		options = append(options, transfer.WithExtraArgs(conf.Warehouse.ExtraArgs...))
	}
	if *dryRun {
		options = append(options, transfer.WithDryRun())
	}

	rsync := transfer.New(conf.Warehouse.Dest, options...)
	if err := rsync.Push(ctx, dir); err != nil {
		log.Fatalf("transfer failed: %s", err)
	}
	log.Println("transfer is done.")
}

// currentCruise picks the cruise whose window contains now. When none
// does, the most recently started one wins.
func currentCruise(
	ctx context.Context, client sealog.Client, now time.Time,
) (apicruises.Cruise, error) {
	cruises, err := client.GetCruises(ctx)
	if err != nil {
		return apicruises.Cruise{}, err
	}
	latest := (*apicruises.Cruise)(nil)
	for i, cruise := range cruises {
		if cruise.Hidden {
			continue
		}
		start, stop := cruise.StartTS.Time(), cruise.StopTS.Time()
		if !now.Before(start) && !now.After(stop) {
			return cruise, nil
		}
		if latest == nil || latest.StartTS.Time().Before(start) {
			latest = &cruises[i]
		}
	}
	if latest == nil {
		return apicruises.Cruise{}, sealog.ErrNotFound
	}
	return *latest, nil
}
