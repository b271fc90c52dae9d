package export_test

import (
	"testing"

	"github.com/oceandatatools/sealog-relay/pkg/cmp"
	"github.com/oceandatatools/sealog-relay/pkg/configs/export"
	"github.com/oceandatatools/sealog-relay/pkg/utils/try"
)

func TestUnmarshal(t *testing.T) {
	t.Run("it reads a full config", func(t *testing.T) {
		config := `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
export_root: /data/sealog-export
warehouse:
  dest: warehouse@10.0.0.5:/mnt/soi_data01/sealog
  ssh_key: /home/sealog/.ssh/id_rsa
  extra_args:
    - --bwlimit=10000
`
		conf := try.To(export.Unmarshal([]byte(config))).OrFatal(t)
		if conf.ExportRoot != "/data/sealog-export" {
			t.Errorf("unexpected export root: %s", conf.ExportRoot)
		}
		if conf.Warehouse == nil {
			t.Fatal("warehouse section is missing")
		}
		if conf.Warehouse.Dest != "warehouse@10.0.0.5:/mnt/soi_data01/sealog" {
			t.Errorf("unexpected dest: %s", conf.Warehouse.Dest)
		}
		if conf.Warehouse.SSHKey != "/home/sealog/.ssh/id_rsa" {
			t.Errorf("unexpected ssh key: %s", conf.Warehouse.SSHKey)
		}
		if !cmp.SliceEq(conf.Warehouse.ExtraArgs, []string{"--bwlimit=10000"}) {
			t.Errorf("unexpected extra args: %v", conf.Warehouse.ExtraArgs)
		}
	})

	t.Run("warehouse is optional", func(t *testing.T) {
		config := `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
export_root: /data/sealog-export
`
		conf := try.To(export.Unmarshal([]byte(config))).OrFatal(t)
		if conf.Warehouse != nil {
			t.Errorf("unexpected warehouse config: %+v", conf.Warehouse)
		}
	})

	for name, config := range map[string]string{
		"missing sealog section": `export_root: /data/sealog-export`,
		"missing export_root": `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
`,
		"warehouse without dest": `
sealog:
  url: http://localhost:8000/sealog-server
  token: test-token
export_root: /data/sealog-export
warehouse:
  ssh_key: /home/sealog/.ssh/id_rsa
`,
	} {
		t.Run("it rejects malformed config: "+name, func(t *testing.T) {
			if _, err := export.Unmarshal([]byte(config)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
