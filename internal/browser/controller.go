package browser

import "errors"

// ErrNoSession is returned by operations that require an active browser
// session when none has been initialized.
var ErrNoSession = errors.New("no active browser session - call initialize_browser first")

// Controller defines the browser operations consumed by the MCP tool layer.
// Manager is the production implementation; tests substitute a mock.
type Controller interface {
	// Active reports whether a browser session is currently open.
	Active() bool

	// Launch starts a browser session, closing any existing one first.
	Launch(opts LaunchOptions) (LaunchInfo, error)

	// Close shuts down the current session. Closing with no session is not
	// an error.
	Close() error

	// Navigate loads the URL in the current tab and waits for the page.
	Navigate(url string) error

	// GoBack navigates back in the current tab's history.
	GoBack() error

	// OpenTab opens the URL in a new tab and makes it current.
	OpenTab(url string) error

	// SwitchTab makes the tab with the given id current. Negative ids index
	// from the end, so -1 is the most recently opened tab.
	SwitchTab(pageID int) error

	// Snapshot rebuilds the selector map and returns it.
	Snapshot() ([]ElementInfo, error)

	// Element returns the element at index from the selector map, building
	// the map first if needed.
	Element(index int) (ElementInfo, bool)

	// ClickElement clicks the element at index in the selector map.
	ClickElement(index int) (ClickResult, error)

	// FillElement types text into the element at index in the selector map.
	FillElement(index int, text string) error

	// SendKeys sends a key or shortcut (e.g. "Enter", "Control+o") to the page.
	SendKeys(keys string) error

	// Scroll scrolls the page vertically. A nil amount scrolls one viewport
	// height; down selects the direction.
	Scroll(amount *int, down bool) error

	// ScrollToText scrolls the first visible occurrence of text into view,
	// reporting whether one was found.
	ScrollToText(text string) (bool, error)

	// DropdownOptions lists the options of the select element at index.
	DropdownOptions(index int) ([]DropdownOption, error)

	// SelectDropdown selects the option with the given label in the select
	// element at index, returning the selected value.
	SelectDropdown(index int, label string) (string, error)

	// PageContent returns the current page's HTML.
	PageContent() (string, error)

	// CurrentURL returns the current page URL, or empty with no session.
	CurrentURL() string
}
