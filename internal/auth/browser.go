package auth

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// BrowserLauncher opens the login page in the system browser. A terminal
// cannot observe the browser tab, so the Window it returns reports closed
// once Timeout has passed.
type BrowserLauncher struct {
	Timeout time.Duration

	// command builds the opener; tests replace it.
	command func(url string) *exec.Cmd
}

// NewBrowserLauncher returns a launcher whose windows expire after timeout.
func NewBrowserLauncher(timeout time.Duration) *BrowserLauncher {
	return &BrowserLauncher{Timeout: timeout, command: openCommand}
}

func openCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

func (b *BrowserLauncher) Open(spec WindowSpec) (Window, error) {
	cmd := b.command(spec.URL)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting browser: %v", ErrPopupBlocked, err)
	}
	go func() { _ = cmd.Wait() }()

	return &browserWindow{deadline: time.Now().Add(b.Timeout)}, nil
}

type browserWindow struct {
	deadline time.Time

	mu     sync.Mutex
	closed bool
}

func (w *browserWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed || time.Now().After(w.deadline)
}

func (w *browserWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
