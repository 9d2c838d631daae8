package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
)

const (
	oldID = "c4b1b0b0-1234-5678-9abc-def012345678"
	newID = "11111111-2222-3333-4444-555555555555"
)

func newCommand(fsys afero.Fs) (*Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	return &Command{
		Command: base.NewCommand(hclog.NewNullLogger(), ui),
		Fs:      fsys,
	}, ui
}

func TestRewrite_Flags(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/world/usercache.json", []byte(`[{"uuid":"`+oldID+`"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/world/stats/"+oldID+".json", []byte(`{}`), 0o644))

	c, ui := newCommand(fsys)
	code := c.Run([]string{"-from", oldID, "-to", newID, "-report", "/report.yaml", "/world"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	data, err := afero.ReadFile(fsys, "/world/usercache.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"uuid":"`+newID+`"}]`, string(data))

	exists, _ := afero.Exists(fsys, "/world/stats/"+newID+".json")
	assert.True(t, exists)

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "rename   /world/stats/"+oldID+".json -> /world/stats/"+newID+".json\n")
	assert.Contains(t, out, "modify   /world/usercache.json\n")
	assert.Contains(t, out, "Scanned 2 files: 2 processed, 1 changed, 1 renamed, 0 failed")
	assert.Contains(t, out, "Report written to /report.yaml")

	raw, err := afero.ReadFile(fsys, "/report.yaml")
	require.NoError(t, err)
	var rep map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &rep))
	assert.Equal(t, oldID, rep["source"])
	assert.Equal(t, newID, rep["target"])
}

func TestRewrite_ConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte(oldID), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "redirect.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
root   = "`+root+`"
source = "`+oldID+`"
target = "`+newID+`"

extensions {
  text = [".md"]
}
`), 0o644))

	c, ui := newCommand(nil)
	code := c.Run([]string{"-config", cfgPath, "-quiet"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	data, err := os.ReadFile(filepath.Join(root, "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, newID, string(data))
	assert.NotContains(t, ui.OutputWriter.String(), "scan ")
}

func TestRewrite_FlagsOverrideConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/flag-root/a.txt", []byte(oldID), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "redirect.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
root   = "/config-root"
source = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
target = "`+newID+`"
`), 0o644))

	c, ui := newCommand(fsys)
	code := c.Run([]string{"-config", cfgPath, "-from", oldID, "/flag-root"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	data, _ := afero.ReadFile(fsys, "/flag-root/a.txt")
	assert.Equal(t, newID, string(data))
}

func TestRewrite_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		setup    func(afero.Fs)
		errorOut string
	}{
		{
			name:     "missing identifiers",
			args:     []string{"/world"},
			errorOut: "invalid configuration",
		},
		{
			name:     "malformed identifier",
			args:     []string{"-from", "1234", "-to", newID, "/world"},
			errorOut: "Source",
		},
		{
			name:     "unknown flag",
			args:     []string{"-bogus"},
			errorOut: "error parsing flags",
		},
		{
			name:     "two roots",
			args:     []string{"-from", oldID, "-to", newID, "/a", "/b"},
			errorOut: "expected a single world directory",
		},
		{
			name:     "missing root",
			args:     []string{"-from", oldID, "-to", newID, "/nowhere"},
			errorOut: "error running rewrite",
		},
		{
			name:     "missing config file",
			args:     []string{"-config", "/nonexistent/redirect.hcl"},
			errorOut: "configuration file not found",
		},
		{
			name: "failed entry",
			args: []string{"-from", oldID, "-to", newID, "/world"},
			setup: func(fsys afero.Fs) {
				_ = afero.WriteFile(fsys, "/world/level.dat", []byte("garbage"), 0o644)
			},
			errorOut: "decode error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, fsys.MkdirAll("/world", 0o755))
			if tt.setup != nil {
				tt.setup(fsys)
			}

			c, ui := newCommand(fsys)
			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.errorOut)
		})
	}
}
