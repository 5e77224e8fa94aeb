package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// openers maps GOOS to the command that hands a URL to the desktop.
var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser opens the default system browser at url, used by `serve --open` for the profile page.
func OpenBrowser(url string) error {
	rt := getRuntime()
	argv, ok := openers[rt]
	if !ok {
		return fmt.Errorf("%w: cannot open a browser on %s", ErrServiceUnavailable, rt)
	}

	args := append(append([]string{}, argv[1:]...), url)
	if err := exec.Command(argv[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
