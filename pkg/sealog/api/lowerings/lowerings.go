package lowerings

import (
	"github.com/oceandatatools/sealog-relay/pkg/cmp"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
)

// Lowering is a single dive/deployment of a vehicle within a cruise.
type Lowering struct {
	ID             string          `json:"id,omitempty"`
	LoweringID     string          `json:"lowering_id"`
	StartTS        isotime.ISO8601 `json:"start_ts"`
	StopTS         isotime.ISO8601 `json:"stop_ts"`
	Location       string          `json:"lowering_location,omitempty"`
	Tags           []string        `json:"lowering_tags,omitempty"`
	Hidden         bool            `json:"lowering_hidden,omitempty"`
	AdditionalMeta map[string]any  `json:"lowering_additional_meta,omitempty"`
}

func (l Lowering) Equal(other Lowering) bool {
	return l.ID == other.ID &&
		l.LoweringID == other.LoweringID &&
		l.StartTS.Equal(other.StartTS) &&
		l.StopTS.Equal(other.StopTS) &&
		l.Location == other.Location &&
		l.Hidden == other.Hidden &&
		cmp.SliceEq(l.Tags, other.Tags)
}
