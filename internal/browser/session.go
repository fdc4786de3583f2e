package browser

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session holds the resources of one live browser and the selector map for
// its current page.
type Session struct {
	ID         string
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time

	// elements is the selector map built by the last snapshot; nil means no
	// snapshot has been taken since the last navigation.
	elements []ElementInfo

	downloadMu   sync.Mutex
	lastDownload string
}

// touch updates the LastUsedAt timestamp.
func (s *Session) touch() {
	s.LastUsedAt = time.Now()
}

// attachPage registers event handlers on a page and makes it current.
func (s *Session) attachPage(page playwright.Page) {
	page.OnDownload(func(download playwright.Download) {
		path, err := download.Path()
		if err != nil {
			return
		}
		s.downloadMu.Lock()
		s.lastDownload = path
		s.downloadMu.Unlock()
	})
	s.Page = page
	s.elements = nil
}

// takeDownload returns the most recent download path and clears it.
func (s *Session) takeDownload() string {
	s.downloadMu.Lock()
	defer s.downloadMu.Unlock()
	path := s.lastDownload
	s.lastDownload = ""
	return path
}

// Navigate loads the URL in the current tab and waits for the load state.
func (s *Session) Navigate(url string) error {
	s.touch()

	waitUntil := playwright.WaitUntilStateLoad
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{WaitUntil: waitUntil})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	// Navigation invalidates element indices
	s.elements = nil
	return nil
}

// GoBack navigates back in the tab history.
func (s *Session) GoBack() error {
	s.touch()

	if _, err := s.Page.GoBack(); err != nil {
		return fmt.Errorf("go back failed: %w", err)
	}
	s.elements = nil
	return nil
}

// OpenTab opens a new tab at the URL and makes it current.
func (s *Session) OpenTab(url string) error {
	s.touch()

	page, err := s.Context.NewPage()
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	s.attachPage(page)

	return s.Navigate(url)
}

// SwitchTab makes the tab with the given id current. Negative ids index
// from the end.
func (s *Session) SwitchTab(pageID int) error {
	s.touch()

	pages := s.Context.Pages()
	if pageID < 0 {
		pageID = len(pages) + pageID
	}
	if pageID < 0 || pageID >= len(pages) {
		return fmt.Errorf("tab %d does not exist (%d tabs open)", pageID, len(pages))
	}

	page := pages[pageID]
	if err := page.BringToFront(); err != nil {
		return fmt.Errorf("failed to switch tab: %w", err)
	}
	s.attachPage(page)

	if err := page.WaitForLoadState(); err != nil {
		return fmt.Errorf("tab did not finish loading: %w", err)
	}
	return nil
}

// Snapshot rebuilds the selector map for the current page.
func (s *Session) Snapshot() ([]ElementInfo, error) {
	s.touch()

	raw, err := s.Page.Evaluate(snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	elements, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}

	s.elements = elements
	return elements, nil
}

// ensureSnapshot returns the selector map, building it if absent.
func (s *Session) ensureSnapshot() ([]ElementInfo, error) {
	if s.elements != nil {
		return s.elements, nil
	}
	return s.Snapshot()
}

// Element returns the selector-map entry at index.
func (s *Session) Element(index int) (ElementInfo, bool) {
	elements, err := s.ensureSnapshot()
	if err != nil {
		return ElementInfo{}, false
	}
	if index < 0 || index >= len(elements) {
		return ElementInfo{}, false
	}
	return elements[index], true
}

// ClickElement clicks the element and reports downloads and new tabs. A
// failed click is retried once after a short wait, matching flaky pages
// that re-render elements during hydration.
func (s *Session) ClickElement(el ElementInfo) (ClickResult, error) {
	s.touch()

	initialPages := len(s.Context.Pages())
	s.takeDownload()

	locator := s.Page.Locator("xpath=" + el.XPath).First()
	err := locator.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)})
	if err != nil {
		time.Sleep(time.Second)
		if err = locator.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err != nil {
			return ClickResult{}, fmt.Errorf("failed to click element: %w", err)
		}
	}

	result := ClickResult{Text: el.Text}

	// Give a triggered download a moment to surface
	time.Sleep(downloadSettleMs * time.Millisecond)
	result.DownloadPath = s.takeDownload()

	if pages := s.Context.Pages(); len(pages) > initialPages {
		result.NewTabOpened = true
		newest := pages[len(pages)-1]
		if err := newest.BringToFront(); err == nil {
			s.attachPage(newest)
		}
	} else {
		// The click may have navigated; element indices are stale either way
		s.elements = nil
	}

	return result, nil
}

// FillElement types text into the element.
func (s *Session) FillElement(el ElementInfo, text string) error {
	s.touch()

	locator := s.Page.Locator("xpath=" + el.XPath).First()
	if err := locator.Fill(text); err != nil {
		return fmt.Errorf("failed to input text: %w", err)
	}
	return nil
}

// SendKeys sends a key or shortcut to the page. Unknown multi-character
// sequences fall back to pressing each rune individually.
func (s *Session) SendKeys(keys string) error {
	s.touch()

	err := s.Page.Keyboard().Press(keys)
	if err == nil {
		return nil
	}
	if !strings.Contains(err.Error(), "Unknown key") {
		return fmt.Errorf("failed to send keys: %w", err)
	}

	for _, r := range keys {
		if err := s.Page.Keyboard().Press(string(r)); err != nil {
			return fmt.Errorf("failed to send key %q: %w", r, err)
		}
	}
	return nil
}

// Scroll scrolls the page vertically. A nil amount scrolls one viewport
// height; down selects the direction.
func (s *Session) Scroll(amount *int, down bool) error {
	s.touch()

	var script string
	switch {
	case amount != nil && down:
		script = fmt.Sprintf("window.scrollBy(0, %d);", *amount)
	case amount != nil:
		script = fmt.Sprintf("window.scrollBy(0, -%d);", *amount)
	case down:
		script = "window.scrollBy(0, window.innerHeight);"
	default:
		script = "window.scrollBy(0, -window.innerHeight);"
	}

	if _, err := s.Page.Evaluate(script); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// ScrollToText scrolls the first visible occurrence of text into view.
func (s *Session) ScrollToText(text string) (bool, error) {
	s.touch()

	locators := []playwright.Locator{
		s.Page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(false)}),
		s.Page.Locator("text=" + text),
		s.Page.Locator(fmt.Sprintf("//*[contains(text(), '%s')]", text)),
	}

	for _, locator := range locators {
		count, err := locator.Count()
		if err != nil || count == 0 {
			continue
		}

		first := locator.First()
		visible, err := first.IsVisible()
		if err != nil || !visible {
			continue
		}

		if err := first.ScrollIntoViewIfNeeded(); err != nil {
			continue
		}
		time.Sleep(500 * time.Millisecond)
		return true, nil
	}

	return false, nil
}

// DropdownOptions collects the options of the select element, searching
// every frame since the element may live inside an iframe.
func (s *Session) DropdownOptions(el ElementInfo) ([]DropdownOption, error) {
	s.touch()

	var all []DropdownOption
	for _, frame := range s.Page.Frames() {
		raw, err := frame.Evaluate(dropdownOptionsScript, el.XPath)
		if err != nil || raw == nil {
			continue
		}

		result, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		rawOptions, ok := result["options"].([]interface{})
		if !ok {
			continue
		}

		for _, rawOpt := range rawOptions {
			opt, ok := rawOpt.(map[string]interface{})
			if !ok {
				continue
			}
			option := DropdownOption{}
			if text, ok := opt["text"].(string); ok {
				option.Text = text
			}
			if value, ok := opt["value"].(string); ok {
				option.Value = value
			}
			if index, ok := opt["index"].(float64); ok {
				option.Index = int(index)
			} else if index, ok := opt["index"].(int); ok {
				option.Index = index
			}
			all = append(all, option)
		}
	}

	return all, nil
}

// SelectDropdown selects the option with the given label, searching every
// frame for the dropdown.
func (s *Session) SelectDropdown(el ElementInfo, label string) (string, error) {
	s.touch()

	for _, frame := range s.Page.Frames() {
		raw, err := frame.Evaluate(findDropdownScript, el.XPath)
		if err != nil || raw == nil {
			continue
		}
		info, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if found, _ := info["found"].(bool); !found {
			continue
		}

		selected, err := frame.Locator("xpath="+el.XPath).Nth(0).SelectOption(
			playwright.SelectOptionValues{Labels: &[]string{label}},
			playwright.LocatorSelectOptionOptions{Timeout: playwright.Float(1000)},
		)
		if err != nil {
			continue
		}
		return strings.Join(selected, ","), nil
	}

	return "", fmt.Errorf("could not select option %q in any frame", label)
}

// PageContent returns the current page HTML.
func (s *Session) PageContent() (string, error) {
	s.touch()
	return s.Page.Content()
}

// CurrentURL returns the current page URL.
func (s *Session) CurrentURL() string {
	return s.Page.URL()
}

// CloseResources closes the page, context, and browser, continuing past
// individual failures.
func (s *Session) CloseResources() {
	_ = s.Page.Close()
	_ = s.Context.Close()
	_ = s.Browser.Close()
}
