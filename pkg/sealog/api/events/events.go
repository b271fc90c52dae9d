package events

import (
	"github.com/oceandatatools/sealog-relay/pkg/cmp"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
)

// Option is one name/value pair attached to an event.
type Option struct {
	Name  string `json:"event_option_name"`
	Value string `json:"event_option_value"`
}

func (o Option) Equal(other Option) bool {
	return o.Name == other.Name && o.Value == other.Value
}

// Event is a timestamped record logged in Sealog.
type Event struct {
	ID        string          `json:"id,omitempty"`
	Timestamp isotime.ISO8601 `json:"ts"`
	Author    string          `json:"event_author,omitempty"`
	Value     string          `json:"event_value"`
	FreeText  string          `json:"event_free_text,omitempty"`
	Options   []Option        `json:"event_options,omitempty"`
}

func (e Event) Equal(other Event) bool {
	return e.ID == other.ID &&
		e.Timestamp.Equal(other.Timestamp) &&
		e.Author == other.Author &&
		e.Value == other.Value &&
		e.FreeText == other.FreeText &&
		cmp.SliceEqWith(e.Options, other.Options, Option.Equal)
}
