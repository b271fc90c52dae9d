package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/auxdata"
	"github.com/oceandatatools/sealog-relay/pkg/configs/relay"
	"github.com/oceandatatools/sealog-relay/pkg/monitor"
	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	"github.com/oceandatatools/sealog-relay/pkg/sealog/feed"
	"github.com/oceandatatools/sealog-relay/pkg/sealog/token"
	"github.com/oceandatatools/sealog-relay/pkg/timeseries"
	"github.com/oceandatatools/sealog-relay/pkg/timeseries/influx"
	"github.com/oceandatatools/sealog-relay/pkg/timeseries/timescale"
	"github.com/oceandatatools/sealog-relay/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config-path", "", "relay config path")
	loglevel := flag.String("loglevel", "info", "monitor endpoint log level. debug|info|warn|error|off")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config-path is required")
	}

	conf, err := relay.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	if claims, err := token.Inspect(conf.Sealog.Token); err != nil {
		log.Printf("warning: can not inspect the api token: %s", err)
	} else if claims.Expired(time.Now()) {
		log.Fatalf("the api token is expired (user id = %s)", claims.UserID)
	}

	// quit on config change; the process supervisor restarts us with
	// the new config.
	ctx, cancel, err := filewatch.UntilChangeContext(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("can not watch configuration: %s", err)
	}
	defer cancel()
	context.AfterFunc(ctx, func() {
		log.Println("config file is updated. quit to restart.")
	})

	backend, err := newBackend(ctx, conf.Backend)
	if err != nil {
		log.Fatalf("can not reach the time-series backend: %s", err)
	}
	defer backend.Close()

	client, err := sealog.NewClient(conf.Sealog.URL, conf.Sealog.Token)
	if err != nil {
		log.Fatalf("bad sealog server config: %s", err)
	}

	builders := []*auxdata.Builder{}
	for _, src := range conf.DataSources {
		builders = append(builders, auxdata.NewBuilder(src, backend))
		log.Printf("relaying data source %s", src.DataSource)
	}

	stats := monitor.NewStats()
	if port := conf.Monitor.Port; port != 0 {
		e := monitor.BuildServer(stats, *loglevel)
		go func() {
			if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("monitor server stopped: %s", err)
			}
		}()
		context.AfterFunc(ctx, func() {
			graceful, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on monitor shutdown: %s", err)
			}
		})
	}

	sub := feed.NewSubscriber(
		conf.Sealog.Websocket, conf.Sealog.Token,
		feed.WithOnRedial(stats.FeedReconnect),
	)

	for event := range sub.Watch(ctx) {
		stats.EventSeen()
		for _, builder := range builders {
			record, err := builder.Build(ctx, event)
			switch {
			case errors.Is(err, timeseries.ErrBackendUnavailable):
				stats.BackendError()
				log.Printf(
					"backend unavailable, skipped event %s for %s: %s",
					event.ID, builder.DataSource(), err,
				)
				continue
			case err != nil:
				log.Printf(
					"can not build aux data of event %s for %s: %s",
					event.ID, builder.DataSource(), err,
				)
				continue
			case record == nil:
				stats.BuildSkipped()
				continue
			}

			if _, err := client.PostAuxData(ctx, *record); err != nil {
				log.Printf(
					"can not post aux data of event %s for %s: %s",
					event.ID, builder.DataSource(), err,
				)
				continue
			}
			stats.RecordPosted()
		}
	}

	log.Println("event feed is closed. bye.")
}

func newBackend(ctx context.Context, conf relay.BackendConfig) (timeseries.Backend, error) {
	switch conf.Kind {
	case relay.BackendInflux:
		options := []influx.Option{}
		if conf.Lookback != 0 {
			options = append(options, influx.WithLookback(conf.Lookback))
		}
		return influx.New(
			conf.Influx.URL, conf.Influx.Token, conf.Influx.Org, conf.Influx.Bucket,
			options...,
		), nil
	case relay.BackendTimescale:
		options := []timescale.Option{}
		if conf.Lookback != 0 {
			options = append(options, timescale.WithLookback(conf.Lookback))
		}
		return timescale.New(ctx, conf.Timescale.URL, options...)
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", conf.Kind)
	}
}
