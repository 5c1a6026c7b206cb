package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/synthtags/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
		wantErr  string
	}{
		{
			name: "positional path with defaults",
			args: []string{"formulas"},
			want: &app.Config{ConfigPath: "formulas", LogFormat: "json", LogLevel: "info", Output: app.OutputTable},
		},
		{
			name: "flags",
			args: []string{"-c", "f.hcl", "-output", "JSON", "-latest", "-watch", "30s", "-log-level", "DEBUG", "-log-format", "text", "-healthcheck-port", "9090"},
			want: &app.Config{
				ConfigPath:      "f.hcl",
				LogFormat:       "text",
				LogLevel:        "debug",
				HealthcheckPort: 9090,
				Output:          app.OutputJSON,
				Latest:          true,
				Watch:           30 * time.Second,
			},
		},
		{
			name: "long flag wins over shorthand and positional",
			args: []string{"-config", "a", "-c", "b", "c"},
			want: &app.Config{ConfigPath: "a", LogFormat: "json", LogLevel: "info", Output: app.OutputTable},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2, wantErr: "flag provided but not defined"},
		{name: "bad log format", args: []string{"-log-format", "xml", "x"}, wantCode: 2, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "loud", "x"}, wantCode: 2, wantErr: "invalid log-level"},
		{name: "bad output", args: []string{"-output", "csv", "x"}, wantCode: 2, wantErr: "invalid output"},
		{name: "negative watch", args: []string{"-watch", "-1s", "x"}, wantCode: 2, wantErr: "must not be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)

			if tc.wantErr != "" {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
