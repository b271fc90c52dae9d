package asnap_test

import (
	"testing"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/configs/asnap"
	"github.com/oceandatatools/sealog-relay/pkg/utils/try"
)

func TestUnmarshal(t *testing.T) {
	t.Run("it reads a full config", func(t *testing.T) {
		config := `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
interval: 30s
status_var: asnapStatus
author: asnap
`
		conf := try.To(asnap.Unmarshal([]byte(config))).OrFatal(t)
		if conf.Interval != 30*time.Second {
			t.Errorf("unexpected interval: %s", conf.Interval)
		}
		if conf.StatusVar != "asnapStatus" || conf.Author != "asnap" {
			t.Errorf("unexpected config: %+v", conf)
		}
	})

	t.Run("interval and status_var have defaults", func(t *testing.T) {
		config := `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
`
		conf := try.To(asnap.Unmarshal([]byte(config))).OrFatal(t)
		if conf.Interval != asnap.DefaultInterval {
			t.Errorf("unexpected interval: %s", conf.Interval)
		}
		if conf.StatusVar != asnap.DefaultStatusVar {
			t.Errorf("unexpected status var: %s", conf.StatusVar)
		}
	})

	for name, config := range map[string]string{
		"missing sealog section": `interval: 10s`,
		"sealog without token": `
sealog:
  url: http://localhost:8000/sealog-server
`,
		"negative interval": `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
interval: -10s
`,
	} {
		t.Run("it rejects malformed config: "+name, func(t *testing.T) {
			if _, err := asnap.Unmarshal([]byte(config)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
