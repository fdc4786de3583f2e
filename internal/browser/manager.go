// Package browser drives a Chromium-family browser through Playwright and
// maintains the selector map the MCP tools operate on.
package browser

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright runtime and the single active browser
// session. It implements Controller.
type Manager struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	session     *Session
	initialized bool
	log         *slog.Logger
}

// NewManager creates a new Manager instance.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log}
}

// runOptions silences the Playwright driver: its output would otherwise
// interleave with MCP protocol frames on stdout.
func runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
}

// InstallDriver ensures the Playwright driver and browsers are installed.
// Called once at startup before the MCP server begins serving.
func InstallDriver() error {
	if err := playwright.Install(runOptions()); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Initialize starts the Playwright runtime. Must be called before Launch.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	pw, err := playwright.Run(runOptions())
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.initialized = true
	return nil
}

// Active reports whether a browser session is currently open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Launch starts a browser session, closing any existing one first. When no
// executable path is configured it resolves one from the browser kind,
// auto-detecting the user's default browser for kind "auto".
func (m *Manager) Launch(opts LaunchOptions) (LaunchInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return LaunchInfo{}, fmt.Errorf("browser manager not initialized")
	}

	if m.session != nil {
		m.session.CloseResources()
		m.session = nil
	}

	kind := opts.Kind
	path := opts.Path
	if path == "" {
		if kind == "" || kind == KindAuto {
			kind, path = DetectDefaultBrowser(m.log)
			m.log.Info("Auto-detected default browser", "kind", kind, "path", path)
		}
		if path == "" {
			path = ExecutablePath(kind)
		}
	}

	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = DefaultTimeoutMs
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if path != "" {
		launchOpts.ExecutablePath = playwright.String(path)
	}

	m.log.Info("Launching browser", "kind", kind, "path", path, "headless", opts.Headless)
	browser, err := m.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return LaunchInfo{}, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		return LaunchInfo{}, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return LaunchInfo{}, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.TimeoutMs)

	now := time.Now()
	session := &Session{
		ID:         uuid.NewString(),
		Browser:    browser,
		Context:    context,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	session.attachPage(page)

	m.session = session
	m.log.Info("Browser session started", "session_id", session.ID)

	return LaunchInfo{
		SessionID: session.ID,
		Kind:      kind,
		Path:      path,
		Headless:  opts.Headless,
	}, nil
}

// Close shuts down the current session. Closing with no session is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}

	m.log.Info("Closing browser session", "session_id", m.session.ID)
	m.session.CloseResources()
	m.session = nil
	return nil
}

// Shutdown closes the session and stops the Playwright runtime.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.CloseResources()
		m.session = nil
	}

	if m.initialized && m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// active returns the current session or ErrNoSession. Callers must hold m.mu.
func (m *Manager) active() (*Session, error) {
	if m.session == nil {
		return nil, ErrNoSession
	}
	return m.session, nil
}

// Navigate loads the URL in the current tab.
func (m *Manager) Navigate(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.Navigate(url)
}

// GoBack navigates back in the current tab's history.
func (m *Manager) GoBack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.GoBack()
}

// OpenTab opens the URL in a new tab and makes it current.
func (m *Manager) OpenTab(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.OpenTab(url)
}

// SwitchTab makes the tab with the given id current.
func (m *Manager) SwitchTab(pageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.SwitchTab(pageID)
}

// Snapshot rebuilds the selector map and returns it.
func (m *Manager) Snapshot() ([]ElementInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return nil, err
	}
	return session.Snapshot()
}

// Element returns the element at index from the selector map.
func (m *Manager) Element(index int) (ElementInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ElementInfo{}, false
	}
	return m.session.Element(index)
}

// ClickElement clicks the element at index in the selector map.
func (m *Manager) ClickElement(index int) (ClickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return ClickResult{}, err
	}

	el, ok := session.Element(index)
	if !ok {
		return ClickResult{}, fmt.Errorf("element with index %d does not exist", index)
	}
	return session.ClickElement(el)
}

// FillElement types text into the element at index.
func (m *Manager) FillElement(index int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}

	el, ok := session.Element(index)
	if !ok {
		return fmt.Errorf("element with index %d does not exist", index)
	}
	return session.FillElement(el, text)
}

// SendKeys sends a key or shortcut to the page.
func (m *Manager) SendKeys(keys string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.SendKeys(keys)
}

// Scroll scrolls the page vertically.
func (m *Manager) Scroll(amount *int, down bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return err
	}
	return session.Scroll(amount, down)
}

// ScrollToText scrolls the first visible occurrence of text into view.
func (m *Manager) ScrollToText(text string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return false, err
	}
	return session.ScrollToText(text)
}

// DropdownOptions lists the options of the select element at index.
func (m *Manager) DropdownOptions(index int) ([]DropdownOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return nil, err
	}

	el, ok := session.Element(index)
	if !ok {
		return nil, fmt.Errorf("element with index %d does not exist", index)
	}
	return session.DropdownOptions(el)
}

// SelectDropdown selects the option with the given label in the select
// element at index.
func (m *Manager) SelectDropdown(index int, label string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return "", err
	}

	el, ok := session.Element(index)
	if !ok {
		return "", fmt.Errorf("element with index %d does not exist", index)
	}
	if el.Tag != "select" {
		return "", fmt.Errorf("element with index %d is a %s, not a select", index, el.Tag)
	}
	return session.SelectDropdown(el, label)
}

// PageContent returns the current page HTML.
func (m *Manager) PageContent() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.active()
	if err != nil {
		return "", err
	}
	return session.PageContent()
}

// CurrentURL returns the current page URL, or empty with no session.
func (m *Manager) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ""
	}
	return m.session.CurrentURL()
}
