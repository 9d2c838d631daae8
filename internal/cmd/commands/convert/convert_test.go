package convert

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     int
		output   []string
		errorOut string
	}{
		{
			name: "raw input",
			args: []string{"0123456789ABCDEFFEDCBA9876543210"},
			output: []string{
				"Canonical:  01234567-89ab-cdef-fedc-ba9876543210\n",
				"Raw:        0123456789abcdeffedcba9876543210\n",
				"UUIDMost:   81985529216486895L\n",
				"UUIDLeast:  -81985529216486896L\n",
				"Int array:  [I; 19088743, -1985229329, -19088744, 1985229328]\n",
			},
		},
		{
			name:   "canonical input",
			args:   []string{"ffffffff-ffff-ffff-ffff-ffffffffffff"},
			output: []string{"UUIDMost:   -1L\n", "Int array:  [I; -1, -1, -1, -1]\n"},
		},
		{
			name:     "invalid input",
			args:     []string{"not-a-uuid"},
			code:     1,
			errorOut: "invalid UUID format",
		},
		{
			name:     "missing argument",
			code:     1,
			errorOut: "expected exactly one UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			c := &Command{Command: base.NewCommand(hclog.NewNullLogger(), ui)}

			assert.Equal(t, tt.code, c.Run(tt.args))
			for _, line := range tt.output {
				assert.Contains(t, ui.OutputWriter.String(), line)
			}
			if tt.errorOut != "" {
				assert.Contains(t, ui.ErrorWriter.String(), tt.errorOut)
			}
		})
	}
}
