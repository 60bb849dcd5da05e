package systray

import (
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// Overlay is the visibility control the tray menu drives
type Overlay interface {
	Toggle() bool
	Visible() bool
	OnVisibility(fn func(visible bool))
}

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	overlay  Overlay
	webURL   string
	iconData []byte
	quit     chan struct{}
}

// NewSystrayManager creates a new systray manager. An empty webURL hides
// the Open Web UI item.
func NewSystrayManager(overlay Overlay, webURL string, iconData []byte) *SystrayManager {
	return &SystrayManager{
		overlay:  overlay,
		webURL:   webURL,
		iconData: iconData,
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	// Set icon
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	// Set tooltip
	systray.SetTitle("CopyMan")
	systray.SetTooltip("CopyMan - Clipboard Snippets")

	// Add menu items
	mToggle := systray.AddMenuItem(toggleTitle(m.overlay.Visible()), "Show or hide the slot overlay")
	m.overlay.OnVisibility(func(visible bool) {
		mToggle.SetTitle(toggleTitle(visible))
	})

	mOpenWebUI := systray.AddMenuItem("Open Web UI", "Open the CopyMan web page")
	if m.webURL == "" {
		mOpenWebUI.Hide()
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit CopyMan")

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-mToggle.ClickedCh:
				m.overlay.Toggle()
			case <-mOpenWebUI.ClickedCh:
				m.openWebUI()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

func toggleTitle(visible bool) string {
	if visible {
		return "Hide Overlay"
	}
	return "Show Overlay"
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the web UI in the default browser
func (m *SystrayManager) openWebUI() {
	slog.Info("Opening web UI", "url", m.webURL)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", m.webURL)
	case "darwin":
		cmd = exec.Command("open", m.webURL)
	case "linux":
		cmd = exec.Command("xdg-open", m.webURL)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open web UI", "error", err)
	}
}
