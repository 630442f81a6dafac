// Package term inspects the terminal the program is attached to.
package term

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(string) string

// Info describes the output terminal.
type Info struct {
	IsTTY   bool
	Profile termenv.Profile
	CI      bool
}

// SupportsColor reports whether the profile can show any colour.
func (i Info) SupportsColor() bool { return i.Profile != termenv.Ascii }

// IsTerminal reports whether f is a terminal, including Cygwin/MSYS ptys.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Detect inspects out. Non-terminals always get the ASCII profile.
func Detect(out *os.File, getenv Getenv) Info {
	info := Info{
		IsTTY:   IsTerminal(out),
		Profile: termenv.Ascii,
		CI:      IsCI(getenv),
	}
	if info.IsTTY {
		info.Profile = termenv.NewOutput(out).EnvColorProfile()
	}
	return info
}

// IsCI returns true if running in a CI environment
func IsCI(getenv Getenv) bool {
	for _, v := range []string{
		"CI", "CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI",
		"TRAVIS", "JENKINS_URL", "BUILDKITE",
	} {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// ShouldUseTUI decides between the interactive program and a static render.
// QUOKKAQ_PLAIN and NO_TUI force the static render, FORCE_TUI forces the
// program.
func ShouldUseTUI(info Info, getenv Getenv) bool {
	if getenv("QUOKKAQ_PLAIN") != "" || getenv("NO_TUI") != "" {
		return false
	}
	if getenv("FORCE_TUI") != "" {
		return true
	}
	return info.IsTTY && !info.CI
}
