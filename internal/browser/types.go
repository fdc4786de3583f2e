package browser

// LaunchOptions configures a new browser session.
type LaunchOptions struct {
	// Kind selects the browser to drive ("auto", "chrome", "brave", "chromium").
	Kind string

	// Path overrides the browser executable path. When empty the path is
	// resolved from Kind, or auto-detected.
	Path string

	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// ViewportWidth and ViewportHeight set the initial viewport size.
	ViewportWidth  int
	ViewportHeight int

	// TimeoutMs sets the default timeout for page operations (milliseconds).
	TimeoutMs float64
}

// LaunchInfo describes a launched browser session.
type LaunchInfo struct {
	// SessionID uniquely identifies the session for logging and telemetry.
	SessionID string

	// Kind is the resolved browser kind.
	Kind string

	// Path is the executable path the browser was launched from, or empty
	// when the Playwright-bundled Chromium was used.
	Path string

	// Headless reports the mode the browser was launched in.
	Headless bool
}

// ElementInfo describes one interactive element in the selector map built by
// a page snapshot. Indices are stable until the next snapshot.
type ElementInfo struct {
	Index          int               `json:"index"`
	Tag            string            `json:"tag"`
	XPath          string            `json:"xpath"`
	Text           string            `json:"text"`
	Attributes     map[string]string `json:"attributes"`
	IsFileUploader bool              `json:"isFileUploader"`
}

// ClickResult reports the outcome of clicking an element.
type ClickResult struct {
	// Text is the visible text of the clicked element.
	Text string

	// DownloadPath is set when the click triggered a file download.
	DownloadPath string

	// NewTabOpened reports that the click opened a new tab; the session has
	// already switched to it.
	NewTabOpened bool
}

// DropdownOption is one option of a select element.
type DropdownOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Default values for browser sessions
const (
	DefaultTimeoutMs      = 30000.0
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720

	// downloadSettle is how long a click waits for a download event before
	// concluding none was triggered.
	downloadSettleMs = 300
)
