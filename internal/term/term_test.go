package term

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) Getenv {
	return func(k string) string { return vars[k] }
}

func TestShouldUseTUI(t *testing.T) {
	tty := Info{IsTTY: true, Profile: termenv.ANSI256}

	tests := []struct {
		name string
		info Info
		vars map[string]string
		want bool
	}{
		{"terminal", tty, nil, true},
		{"pipe", Info{Profile: termenv.Ascii}, nil, false},
		{"ci", Info{IsTTY: true, CI: true}, nil, false},
		{"plain requested", tty, map[string]string{"QUOKKAQ_PLAIN": "1"}, false},
		{"no tui", tty, map[string]string{"NO_TUI": "1"}, false},
		{"forced", Info{}, map[string]string{"FORCE_TUI": "1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShouldUseTUI(tt.info, env(tt.vars)))
		})
	}
}

func TestIsCI(t *testing.T) {
	require.True(t, IsCI(env(map[string]string{"GITHUB_ACTIONS": "true"})))
	require.False(t, IsCI(env(nil)))
}

func TestDetectNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	info := Detect(f, env(map[string]string{"CI": "1"}))
	require.False(t, info.IsTTY)
	require.True(t, info.CI)
	require.Equal(t, termenv.Ascii, info.Profile)
	require.False(t, info.SupportsColor())
}
