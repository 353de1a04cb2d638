package flagx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", "localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "joined value",
			args:    []string{"-config=alt.json", "-a", "localhost"},
			allowed: []string{"-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "-y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next flag is not taken as value",
			args:    []string{"-c", "-config=alt.json"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "-config=alt.json"},
		},
		{
			name:    "joined value may start with dash",
			args:    []string{"-d=--weird"},
			allowed: []string{"-d"},
			want:    []string{"-d=--weird"},
		},
		{
			name:    "server and probe flags mixed",
			args:    []string{"-a", ":8080", "-c", "conf.json", "--url", "http://x", "-D", "sqlite"},
			allowed: []string{"-a", "-D"},
			want:    []string{"-a", ":8080", "-D", "sqlite"},
		},
		{
			name:    "repeats keep order",
			args:    []string{"-s", "one", "-s", "two"},
			allowed: []string{"-s"},
			want:    []string{"-s", "one", "-s", "two"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/ordersync.json", ConfigPath([]string{"-c", "/etc/ordersync.json"}))
	assert.Equal(t, "/etc/long.json", ConfigPath([]string{"-a", ":8080", "-config", "/etc/long.json"}))
	assert.Equal(t, "/2.json", ConfigPath([]string{"-c", "/1.json", "-config=/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
	assert.Empty(t, ConfigPath(nil))
}
