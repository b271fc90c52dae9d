package isotime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
	"github.com/oceandatatools/sealog-relay/pkg/utils/try"
)

func TestParse(t *testing.T) {
	t.Run("it parses the sealog millisecond form", func(t *testing.T) {
		actual := try.To(isotime.Parse("2023-08-14T19:02:11.123Z")).OrFatal(t)

		expected := time.Date(2023, 8, 14, 19, 2, 11, 123_000_000, time.UTC)
		if !actual.Time().Equal(expected) {
			t.Errorf("expected %s, got %s", expected, actual.Time())
		}
	})

	t.Run("it accepts offset forms and normalizes to UTC", func(t *testing.T) {
		actual := try.To(isotime.Parse("2023-08-14T19:02:11.123+09:00")).OrFatal(t)

		expected := time.Date(2023, 8, 14, 10, 2, 11, 123_000_000, time.UTC)
		if !actual.Time().Equal(expected) {
			t.Errorf("expected %s, got %s", expected, actual.Time())
		}
	})

	t.Run("it accepts second precision without offset", func(t *testing.T) {
		actual := try.To(isotime.Parse("2023-08-14T19:02:11")).OrFatal(t)

		expected := time.Date(2023, 8, 14, 19, 2, 11, 0, time.UTC)
		if !actual.Time().Equal(expected) {
			t.Errorf("expected %s, got %s", expected, actual.Time())
		}
	})

	t.Run("it rejects garbage", func(t *testing.T) {
		if _, err := isotime.Parse("not a timestamp"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestString(t *testing.T) {
	t.Run("it always writes millisecond UTC form", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*60*60)
		testee := isotime.New(time.Date(2023, 8, 15, 4, 2, 11, 987_000_000, loc))

		if s := testee.String(); s != "2023-08-14T19:02:11.987Z" {
			t.Errorf("unexpected form: %s", s)
		}
	})
}

func TestJSON(t *testing.T) {
	t.Run("it round-trips through JSON", func(t *testing.T) {
		testee := try.To(isotime.Parse("2023-08-14T19:02:11.123Z")).OrFatal(t)

		marshalled := try.To(json.Marshal(testee)).OrFatal(t)
		if string(marshalled) != `"2023-08-14T19:02:11.123Z"` {
			t.Errorf("unexpected json: %s", string(marshalled))
		}

		var restored isotime.ISO8601
		if err := json.Unmarshal(marshalled, &restored); err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(testee) {
			t.Errorf("round-trip changed the value: %s != %s", restored, testee)
		}
	})
}
