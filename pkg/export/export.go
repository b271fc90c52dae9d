// Package export builds the on-disk export tree for a cruise: the
// cruise record, its events and aux data, and the same per lowering,
// laid out the way the data warehouse expects.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	apicruises "github.com/oceandatatools/sealog-relay/pkg/sealog/api/cruises"
	apilowerings "github.com/oceandatatools/sealog-relay/pkg/sealog/api/lowerings"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

type Exporter struct {
	client sealog.Client
	root   string
	logger *log.Logger
}

type Option func(*Exporter) *Exporter

func WithLogger(logger *log.Logger) Option {
	return func(e *Exporter) *Exporter {
		e.logger = logger
		return e
	}
}

// NewExporter builds exports under root, one directory per cruise.
func NewExporter(client sealog.Client, root string, options ...Option) *Exporter {
	e := &Exporter{client: client, root: root, logger: log.Default()}
	for _, option := range options {
		e = option(e)
	}
	return e
}

// ExportCruise writes the full export tree of one cruise and returns
// its directory.
//
// Layout:
//
//	<root>/<cruise_id>/
//	  <cruise_id>_cruiseRecord.json
//	  <cruise_id>_eventOnlyExport.json
//	  <cruise_id>_eventOnlyExport.csv
//	  <cruise_id>_auxDataExport.json
//	  <lowering_id>/... (same shape per lowering)
func (e *Exporter) ExportCruise(ctx context.Context, cruiseID string) (string, error) {
	cruise, err := e.client.GetCruiseByID(ctx, cruiseID)
	if err != nil {
		return "", xerrors.Wrap(err)
	}

	cruiseDir := filepath.Join(e.root, cruise.CruiseID)
	if err := os.MkdirAll(cruiseDir, 0o755); err != nil {
		return "", xerrors.Wrap(err)
	}

	if err := writeJSON(
		filepath.Join(cruiseDir, cruise.CruiseID+"_cruiseRecord.json"), cruise,
	); err != nil {
		return "", err
	}

	window := sealog.EventFilter{StartTS: &cruise.StartTS, StopTS: &cruise.StopTS}
	if err := e.exportWindow(ctx, cruiseDir, cruise.CruiseID, window); err != nil {
		return "", err
	}

	all, err := e.client.GetLowerings(ctx)
	if err != nil {
		return "", xerrors.Wrap(err)
	}
	for _, lowering := range LoweringsWithin(cruise, all) {
		if err := e.exportLowering(ctx, cruiseDir, lowering); err != nil {
			return "", err
		}
		e.logger.Printf("exported lowering %s", lowering.LoweringID)
	}

	return cruiseDir, nil
}

func (e *Exporter) exportLowering(
	ctx context.Context, cruiseDir string, lowering apilowerings.Lowering,
) error {
	dir := filepath.Join(cruiseDir, lowering.LoweringID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return xerrors.Wrap(err)
	}

	if err := writeJSON(
		filepath.Join(dir, lowering.LoweringID+"_loweringRecord.json"), lowering,
	); err != nil {
		return err
	}

	window := sealog.EventFilter{StartTS: &lowering.StartTS, StopTS: &lowering.StopTS}
	return e.exportWindow(ctx, dir, lowering.LoweringID, window)
}

// exportWindow writes the event and aux-data files of one time window.
func (e *Exporter) exportWindow(
	ctx context.Context, dir string, prefix string, window sealog.EventFilter,
) error {
	events, err := e.client.GetEvents(ctx, window)
	if err != nil {
		return xerrors.Wrap(err)
	}

	if err := writeJSON(
		filepath.Join(dir, prefix+"_eventOnlyExport.json"), events,
	); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, prefix+"_eventOnlyExport.csv"))
	if err != nil {
		return xerrors.Wrap(err)
	}
	defer csvFile.Close()
	if err := EventsCSV(csvFile, events); err != nil {
		return err
	}

	auxData, err := e.client.GetEventAuxData(ctx, window)
	if err != nil {
		return xerrors.Wrap(err)
	}
	return writeJSON(filepath.Join(dir, prefix+"_auxDataExport.json"), auxData)
}

// LoweringsWithin keeps the lowerings whose window overlaps the cruise.
func LoweringsWithin(
	cruise apicruises.Cruise, all []apilowerings.Lowering,
) []apilowerings.Lowering {
	kept := []apilowerings.Lowering{}
	for _, lowering := range all {
		if overlaps(cruise.StartTS, cruise.StopTS, lowering.StartTS, lowering.StopTS) {
			kept = append(kept, lowering)
		}
	}
	return kept
}

func overlaps(aStart, aStop, bStart, bStop isotime.ISO8601) bool {
	return !bStop.Time().Before(aStart.Time()) && !aStop.Time().Before(bStart.Time())
}

func writeJSON(path string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return xerrors.Wrap(err)
	}
	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return xerrors.Wrap(fmt.Errorf("writing %s: %w", path, err))
	}
	return nil
}
