package isotime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Format string of timestamps on the Sealog wire: ISO8601 extended,
// millisecond precision, always in UTC with "Z" offset.
const ISO8601MilliFormat string = "2006-01-02T15:04:05.000Z"

// Formats accepted when parsing. Sensor feeds and exports are not
// uniform about fractional seconds and offsets.
var acceptedFormats = []string{
	ISO8601MilliFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// ISO8601 is a timestamp interchanged with the Sealog server.
//
// It marshals to the millisecond "Z" form regardless of the form it was
// parsed from.
type ISO8601 time.Time

func New(t time.Time) ISO8601 {
	return ISO8601(t.UTC())
}

// Parse reads a timestamp expression in any of the accepted forms.
func Parse(expression string) (ISO8601, error) {
	for _, format := range acceptedFormats {
		t, err := time.Parse(format, expression)
		if err == nil {
			return ISO8601(t.UTC()), nil
		}
	}
	return ISO8601{}, fmt.Errorf("isotime: unparsable timestamp: %s", expression)
}

func (t ISO8601) Time() time.Time {
	return time.Time(t)
}

func (t ISO8601) String() string {
	return time.Time(t).UTC().Format(ISO8601MilliFormat)
}

// Equal is timezone-insensitive equality.
func (t ISO8601) Equal(other ISO8601) bool {
	return t.Time().Equal(other.Time())
}

func (t ISO8601) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ISO8601) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewBuffer(data))
	var expression string
	if err := dec.Decode(&expression); err != nil {
		return err
	}
	parsed, err := Parse(expression)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ISO8601) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *ISO8601) UnmarshalYAML(node *yaml.Node) error {
	var expression string
	if err := node.Decode(&expression); err != nil {
		return err
	}
	parsed, err := Parse(expression)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
