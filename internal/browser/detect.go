package browser

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Browser kinds
const (
	KindAuto     = "auto"
	KindChrome   = "chrome"
	KindBrave    = "brave"
	KindChromium = "chromium"
)

// DetectDefaultBrowser detects the user's default browser and returns its
// kind and executable path. Edge maps to chrome since it is Chromium-based.
// Falls back to ("chrome", "") when detection is not possible; an empty path
// means the caller should resolve it from the kind.
func DetectDefaultBrowser(log *slog.Logger) (string, string) {
	if log == nil {
		log = slog.Default()
	}

	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("defaults", "read",
			"com.apple.LaunchServices/com.apple.launchservices.secure", "LSHandlers").Output()
		if err == nil {
			if kind, path, ok := classifyDarwinHandlers(string(out)); ok {
				return kind, path
			}
		} else {
			log.Warn("Could not read LaunchServices handlers", "error", err)
		}

	case "linux":
		out, err := exec.Command("xdg-settings", "get", "default-web-browser").Output()
		if err == nil {
			if kind, path, ok := classifyXDGBrowser(strings.TrimSpace(string(out))); ok {
				return kind, path
			}
		} else {
			log.Warn("Could not query xdg-settings for default browser", "error", err)
		}

	case "windows":
		// No portable registry lookup; probe well-known install paths in
		// preference order.
		home, _ := os.UserHomeDir()
		for _, candidate := range windowsBrowserCandidates(home) {
			if _, err := os.Stat(candidate.path); err == nil {
				return candidate.kind, candidate.path
			}
		}
	}

	log.Info("Could not detect default browser, falling back to Chrome")
	return KindChrome, ""
}

// classifyDarwinHandlers maps LaunchServices handler output to a browser
// kind and executable path.
func classifyDarwinHandlers(output string) (string, string, bool) {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "com.brave.browser"):
		return KindBrave, "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser", true
	case strings.Contains(lower, "com.google.chrome"):
		return KindChrome, "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", true
	case strings.Contains(lower, "com.microsoft.edgemac"):
		// Edge is Chromium-based
		return KindChrome, "/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge", true
	}
	return "", "", false
}

// classifyXDGBrowser maps an xdg-settings desktop entry name to a browser
// kind and executable path.
func classifyXDGBrowser(entry string) (string, string, bool) {
	entry = strings.ToLower(entry)
	switch {
	case strings.Contains(entry, "brave"):
		return KindBrave, "/usr/bin/brave-browser", true
	case strings.Contains(entry, "google-chrome"), strings.Contains(entry, "chrome"):
		return KindChrome, "/usr/bin/google-chrome", true
	case strings.Contains(entry, "chromium"):
		return KindChromium, "/usr/bin/chromium-browser", true
	}
	return "", "", false
}

type browserCandidate struct {
	kind string
	path string
}

// windowsBrowserCandidates returns well-known Windows install paths in
// detection preference order.
func windowsBrowserCandidates(home string) []browserCandidate {
	candidates := []browserCandidate{}
	if home != "" {
		candidates = append(candidates, browserCandidate{
			KindBrave,
			filepath.Join(home, "AppData", "Local", "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
		})
	}
	candidates = append(candidates,
		browserCandidate{KindBrave, `C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`},
		browserCandidate{KindBrave, `C:\Program Files (x86)\BraveSoftware\Brave-Browser\Application\brave.exe`},
		browserCandidate{KindChrome, `C:\Program Files\Google\Chrome\Application\chrome.exe`},
		browserCandidate{KindChrome, `C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`},
		// Edge is Chromium-based
		browserCandidate{KindChrome, `C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`},
	)
	return candidates
}

// ExecutablePath resolves the default executable path for a browser kind on
// the current OS. Returns empty when no well-known path exists, in which
// case the Playwright-bundled Chromium is used.
func ExecutablePath(kind string) string {
	return executablePathFor(kind, runtime.GOOS)
}

func executablePathFor(kind, goos string) string {
	switch goos {
	case "darwin":
		switch kind {
		case KindBrave:
			return "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser"
		case KindChrome:
			return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
		}
	case "linux":
		switch kind {
		case KindBrave:
			return "/usr/bin/brave-browser"
		case KindChrome:
			return "/usr/bin/google-chrome"
		case KindChromium:
			return "/usr/bin/chromium-browser"
		}
	case "windows":
		switch kind {
		case KindBrave:
			return `C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`
		case KindChrome:
			return `C:\Program Files\Google\Chrome\Application\chrome.exe`
		}
	}
	return ""
}
