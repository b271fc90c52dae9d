package auxdata

import (
	"github.com/oceandatatools/sealog-relay/pkg/cmp"
)

// DataItem is one measured value within an aux-data record.
//
// Value is float64 for numeric readings and string for categorical ones
// (for example a hemisphere flag).
type DataItem struct {
	Name  string `json:"data_name"`
	Value any    `json:"data_value"`
	UOM   string `json:"data_uom,omitempty"`
}

func (d DataItem) Equal(other DataItem) bool {
	return d.Name == other.Name && d.Value == other.Value && d.UOM == other.UOM
}

// AuxData is a structured attachment to an event carrying values from
// one external data source.
type AuxData struct {
	ID         string     `json:"id,omitempty"`
	EventID    string     `json:"event_id"`
	DataSource string     `json:"data_source"`
	DataArray  []DataItem `json:"data_array"`
}

func (a AuxData) Equal(other AuxData) bool {
	return a.ID == other.ID &&
		a.EventID == other.EventID &&
		a.DataSource == other.DataSource &&
		cmp.SliceEqWith(a.DataArray, other.DataArray, DataItem.Equal)
}
