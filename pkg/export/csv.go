package export

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

// EventsCSV writes events as CSV. The fixed columns come first and each
// distinct option name gets a "event_option.<name>" column, sorted by
// name so the header is stable across runs.
func EventsCSV(w io.Writer, evts []events.Event) error {
	optionNames := map[string]struct{}{}
	for _, event := range evts {
		for _, option := range event.Options {
			optionNames[option.Name] = struct{}{}
		}
	}
	sortedNames := []string{}
	for name := range optionNames {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)

	header := []string{"id", "ts", "event_value", "event_author", "event_free_text"}
	for _, name := range sortedNames {
		header = append(header, "event_option."+name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return xerrors.Wrap(err)
	}

	for _, event := range evts {
		row := []string{
			event.ID,
			event.Timestamp.String(),
			event.Value,
			event.Author,
			event.FreeText,
		}
		byName := map[string]string{}
		for _, option := range event.Options {
			byName[option.Name] = option.Value
		}
		for _, name := range sortedNames {
			row = append(row, byName[name])
		}
		if err := cw.Write(row); err != nil {
			return xerrors.Wrap(err)
		}
	}

	cw.Flush()
	return xerrors.Safe(cw.Error())
}
