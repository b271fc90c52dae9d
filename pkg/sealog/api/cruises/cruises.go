package cruises

import (
	"github.com/oceandatatools/sealog-relay/pkg/cmp"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
)

// Cruise scopes a voyage by its start/stop timestamps.
type Cruise struct {
	ID             string          `json:"id,omitempty"`
	CruiseID       string          `json:"cruise_id"`
	StartTS        isotime.ISO8601 `json:"start_ts"`
	StopTS         isotime.ISO8601 `json:"stop_ts"`
	Location       string          `json:"cruise_location,omitempty"`
	Tags           []string        `json:"cruise_tags,omitempty"`
	Hidden         bool            `json:"cruise_hidden,omitempty"`
	AdditionalMeta map[string]any  `json:"cruise_additional_meta,omitempty"`
}

func (c Cruise) Equal(other Cruise) bool {
	return c.ID == other.ID &&
		c.CruiseID == other.CruiseID &&
		c.StartTS.Equal(other.StartTS) &&
		c.StopTS.Equal(other.StopTS) &&
		c.Location == other.Location &&
		c.Hidden == other.Hidden &&
		cmp.SliceEq(c.Tags, other.Tags)
}
