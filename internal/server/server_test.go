package server

import (
	"errors"
	"strings"
	"testing"

	"github.com/praveen92y/mcp-browser-use/internal/browser"
	"github.com/praveen92y/mcp-browser-use/internal/history"
	"github.com/praveen92y/mcp-browser-use/internal/telemetry"
	"github.com/praveen92y/mcp-browser-use/internal/tools"
)

var testError = errors.New("test error")

// MockController implements the browser.Controller interface for testing
type MockController struct {
	Sessions      int
	ActiveSession bool
	NavigatedURLs []string
	WentBack      int
	OpenedTabs    []string
	SwitchedTabs  []int
	Elements      []browser.ElementInfo
	Clicked       []int
	ClickRes      browser.ClickResult
	Filled        map[int]string
	SentKeys      []string
	Scrolled      []string
	TextFound     bool
	Options       []browser.DropdownOption
	SelectMessage string
	HTML          string
	URL           string
	ReturnError   bool
}

func (m *MockController) Active() bool { return m.ActiveSession }

func (m *MockController) Launch(opts browser.LaunchOptions) (browser.LaunchInfo, error) {
	if m.ReturnError {
		return browser.LaunchInfo{}, testError
	}
	m.Sessions++
	m.ActiveSession = true
	return browser.LaunchInfo{SessionID: "test-session", Kind: "chrome", Headless: opts.Headless}, nil
}

func (m *MockController) Close() error {
	if m.ReturnError {
		return testError
	}
	m.ActiveSession = false
	return nil
}

func (m *MockController) Navigate(url string) error {
	if m.ReturnError {
		return testError
	}
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	m.NavigatedURLs = append(m.NavigatedURLs, url)
	return nil
}

func (m *MockController) GoBack() error {
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	m.WentBack++
	return nil
}

func (m *MockController) OpenTab(url string) error {
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	m.OpenedTabs = append(m.OpenedTabs, url)
	return nil
}

func (m *MockController) SwitchTab(pageID int) error {
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	m.SwitchedTabs = append(m.SwitchedTabs, pageID)
	return nil
}

func (m *MockController) Snapshot() ([]browser.ElementInfo, error) {
	if m.ReturnError {
		return nil, testError
	}
	if !m.ActiveSession {
		return nil, browser.ErrNoSession
	}
	return m.Elements, nil
}

func (m *MockController) Element(index int) (browser.ElementInfo, bool) {
	for _, el := range m.Elements {
		if el.Index == index {
			return el, true
		}
	}
	return browser.ElementInfo{}, false
}

func (m *MockController) ClickElement(index int) (browser.ClickResult, error) {
	if m.ReturnError {
		return browser.ClickResult{}, testError
	}
	m.Clicked = append(m.Clicked, index)
	return m.ClickRes, nil
}

func (m *MockController) FillElement(index int, text string) error {
	if m.ReturnError {
		return testError
	}
	if m.Filled == nil {
		m.Filled = make(map[int]string)
	}
	m.Filled[index] = text
	return nil
}

func (m *MockController) SendKeys(keys string) error {
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	m.SentKeys = append(m.SentKeys, keys)
	return nil
}

func (m *MockController) Scroll(amount *int, down bool) error {
	if !m.ActiveSession {
		return browser.ErrNoSession
	}
	direction := "down"
	if !down {
		direction = "up"
	}
	m.Scrolled = append(m.Scrolled, direction)
	return nil
}

func (m *MockController) ScrollToText(text string) (bool, error) {
	if !m.ActiveSession {
		return false, browser.ErrNoSession
	}
	return m.TextFound, nil
}

func (m *MockController) DropdownOptions(index int) ([]browser.DropdownOption, error) {
	if m.ReturnError {
		return nil, testError
	}
	return m.Options, nil
}

func (m *MockController) SelectDropdown(index int, label string) (string, error) {
	if m.ReturnError {
		return "", testError
	}
	return m.SelectMessage, nil
}

func (m *MockController) PageContent() (string, error) {
	if m.ReturnError {
		return "", testError
	}
	if !m.ActiveSession {
		return "", browser.ErrNoSession
	}
	return m.HTML, nil
}

func (m *MockController) CurrentURL() string { return m.URL }

// MockHistoryStore implements the history.Store interface for testing
type MockHistoryStore struct {
	Entries     []history.Entry
	Cleared     bool
	ReturnError bool
}

func (m *MockHistoryStore) Initialize(dbPath string) error { return nil }
func (m *MockHistoryStore) Close() error                   { return nil }

func (m *MockHistoryStore) Record(entry history.Entry) error {
	if m.ReturnError {
		return testError
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockHistoryStore) Recent(limit int) ([]history.Entry, error) {
	if m.ReturnError {
		return nil, testError
	}
	if len(m.Entries) > limit {
		return m.Entries[:limit], nil
	}
	return m.Entries, nil
}

func (m *MockHistoryStore) Clear() (int, error) {
	if m.ReturnError {
		return 0, testError
	}
	n := len(m.Entries)
	m.Entries = nil
	m.Cleared = true
	return n, nil
}

// MockConverter implements the markdown.Converter interface for testing
type MockConverter struct {
	Output      string
	ReturnError bool
}

func (m *MockConverter) Initialize() error { return nil }

func (m *MockConverter) Convert(html string) (string, error) {
	if m.ReturnError {
		return "", testError
	}
	if m.Output != "" {
		return m.Output, nil
	}
	return html, nil
}

// newTestServer builds a BrowserToolServer with fresh mocks.
func newTestServer(controller *MockController) (*BrowserToolServer, *MockHistoryStore) {
	store := &MockHistoryStore{}
	srv := NewBrowserToolServer(controller, store, &MockConverter{},
		telemetry.NewMetricsCollector(), browser.LaunchOptions{})
	return srv, store
}

func TestInitializeMissingDependencies(t *testing.T) {
	srv := NewBrowserToolServer(nil, nil, nil, nil, browser.LaunchOptions{})
	if err := srv.Initialize(); err == nil {
		t.Error("Expected error when initializing with nil dependencies, got nil")
	}
}

func TestHandleInitializeBrowser(t *testing.T) {
	controller := &MockController{}
	srv, store := newTestServer(controller)

	resp, err := srv.handleInitializeBrowser(nil, tools.InitializeBrowserRequest{
		Headless: true,
		Task:     "find the pricing page",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Errorf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if controller.Sessions != 1 {
		t.Errorf("Expected 1 launch, got: %d", controller.Sessions)
	}
	if !strings.Contains(resp.Message, "headless mode") {
		t.Errorf("Expected message to mention headless mode, got: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "find the pricing page") {
		t.Errorf("Expected message to include the task, got: %s", resp.Message)
	}
	if len(store.Entries) != 1 {
		t.Fatalf("Expected 1 history entry, got: %d", len(store.Entries))
	}
	if store.Entries[0].Tool != tools.ToolInitializeBrowser {
		t.Errorf("Expected history entry for initialize_browser, got: %s", store.Entries[0].Tool)
	}
}

func TestHandleInitializeBrowserLaunchError(t *testing.T) {
	controller := &MockController{ReturnError: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleInitializeBrowser(nil, tools.InitializeBrowserRequest{})
	if err != nil {
		t.Fatalf("Expected no protocol error, got: %v", err)
	}
	if resp.Status != tools.StatusError {
		t.Errorf("Expected error status, got: %s", resp.Status)
	}
	if resp.Error == "" {
		t.Error("Expected error message to be set")
	}
}

func TestHandleCloseBrowserIdempotent(t *testing.T) {
	controller := &MockController{}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleCloseBrowser(nil, tools.CloseBrowserRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Errorf("Expected success status for close with no session, got: %s", resp.Status)
	}
}

func TestHandleSearchGoogle(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleSearchGoogle(nil, tools.SearchGoogleRequest{Query: "go playwright"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if len(controller.NavigatedURLs) != 1 {
		t.Fatalf("Expected 1 navigation, got: %d", len(controller.NavigatedURLs))
	}
	url := controller.NavigatedURLs[0]
	if !strings.HasPrefix(url, "https://www.google.com/search?q=") {
		t.Errorf("Expected a Google search URL, got: %s", url)
	}
	if !strings.Contains(url, "udm=14") {
		t.Errorf("Expected udm=14 in search URL, got: %s", url)
	}
	if !strings.Contains(url, "go+playwright") {
		t.Errorf("Expected escaped query in URL, got: %s", url)
	}
}

func TestHandleSearchGoogleEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(&MockController{ActiveSession: true})

	resp, err := srv.handleSearchGoogle(nil, tools.SearchGoogleRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusError {
		t.Errorf("Expected error status for empty query, got: %s", resp.Status)
	}
}

func TestHandleGoToURLNoSession(t *testing.T) {
	srv, _ := newTestServer(&MockController{})

	resp, err := srv.handleGoToURL(nil, tools.GoToURLRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusError {
		t.Fatalf("Expected error status without a session, got: %s", resp.Status)
	}
	if !strings.Contains(resp.Error, "no active browser session") {
		t.Errorf("Expected no-session message, got: %s", resp.Error)
	}
}

func TestHandleGoBack(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleGoBack(nil, tools.GoBackRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Errorf("Expected success status, got: %s", resp.Status)
	}
	if controller.WentBack != 1 {
		t.Errorf("Expected 1 go-back, got: %d", controller.WentBack)
	}
}

func TestHandleClickElement(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 0, Tag: "button", Text: "Submit"},
		},
		ClickRes: browser.ClickResult{Text: "Submit"},
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleClickElement(nil, tools.ClickElementRequest{Index: 0})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if !strings.Contains(resp.Message, "Clicked button with index 0") {
		t.Errorf("Expected click message, got: %s", resp.Message)
	}
}

func TestHandleClickElementUnknownIndex(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleClickElement(nil, tools.ClickElementRequest{Index: 7})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusError {
		t.Fatalf("Expected error status for unknown index, got: %s", resp.Status)
	}
	if !strings.Contains(resp.Error, "index 7 does not exist") {
		t.Errorf("Expected unknown-index message, got: %s", resp.Error)
	}
}

func TestHandleClickElementFileUploader(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 2, Tag: "input", IsFileUploader: true},
		},
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleClickElement(nil, tools.ClickElementRequest{Index: 2})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusError {
		t.Fatalf("Expected error status for file uploader, got: %s", resp.Status)
	}
	if !strings.Contains(resp.Error, "file uploader") {
		t.Errorf("Expected file uploader refusal, got: %s", resp.Error)
	}
	if len(controller.Clicked) != 0 {
		t.Errorf("Expected no click on the file uploader, got: %v", controller.Clicked)
	}
}

func TestHandleClickElementDownload(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 0, Tag: "a", Text: "Download report"},
		},
		ClickRes: browser.ClickResult{Text: "Download report", DownloadPath: "/tmp/report.pdf"},
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleClickElement(nil, tools.ClickElementRequest{Index: 0})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "Downloaded file to /tmp/report.pdf") {
		t.Errorf("Expected download message, got: %s", resp.Message)
	}
}

func TestHandleClickElementNewTab(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 0, Tag: "a", Text: "Open docs"},
		},
		ClickRes: browser.ClickResult{Text: "Open docs", NewTabOpened: true},
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleClickElement(nil, tools.ClickElementRequest{Index: 0})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "New tab opened - switching to it") {
		t.Errorf("Expected new-tab message, got: %s", resp.Message)
	}
}

func TestHandleInputText(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 1, Tag: "input"},
		},
	}
	srv, store := newTestServer(controller)

	resp, err := srv.handleInputText(nil, tools.InputTextRequest{Index: 1, Text: "hello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if controller.Filled[1] != "hello" {
		t.Errorf("Expected element 1 filled with 'hello', got: %q", controller.Filled[1])
	}
	if !strings.Contains(resp.Message, "hello") {
		t.Errorf("Expected typed text in message, got: %s", resp.Message)
	}
	if !strings.Contains(store.Entries[0].Args, "hello") {
		t.Errorf("Expected non-sensitive text recorded in history, got: %s", store.Entries[0].Args)
	}
}

func TestHandleInputTextSensitive(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 1, Tag: "input"},
		},
	}
	srv, store := newTestServer(controller)

	resp, err := srv.handleInputText(nil, tools.InputTextRequest{
		Index:            1,
		Text:             "hunter2",
		HasSensitiveData: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(resp.Message, "hunter2") {
		t.Errorf("Sensitive text leaked into message: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "sensitive data") {
		t.Errorf("Expected redacted message, got: %s", resp.Message)
	}
	if strings.Contains(store.Entries[0].Args, "hunter2") {
		t.Errorf("Sensitive text leaked into history: %s", store.Entries[0].Args)
	}
}

func TestHandleSwitchTab(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleSwitchTab(nil, tools.SwitchTabRequest{PageID: -1})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s", resp.Status)
	}
	if len(controller.SwitchedTabs) != 1 || controller.SwitchedTabs[0] != -1 {
		t.Errorf("Expected switch to tab -1, got: %v", controller.SwitchedTabs)
	}
}

func TestHandleOpenTab(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleOpenTab(nil, tools.OpenTabRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s", resp.Status)
	}
	if len(controller.OpenedTabs) != 1 {
		t.Errorf("Expected 1 opened tab, got: %d", len(controller.OpenedTabs))
	}
}

func TestHandleInspectPage(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 0, Tag: "a", Text: "Home", Attributes: map[string]string{"href": "/"}},
		},
		HTML: "<html><body><h1>Welcome</h1></body></html>",
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleInspectPage(nil, tools.InspectPageRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if !strings.Contains(resp.Elements, `[0]<a href="/">Home</a>`) {
		t.Errorf("Expected element listing, got: %s", resp.Elements)
	}
	if resp.Content == "" {
		t.Error("Expected converted page content to be set")
	}
}

func TestHandleInspectPageNoElements(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleInspectPage(nil, tools.InspectPageRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Elements != "No interactive elements found on the page" {
		t.Errorf("Expected empty-page message, got: %s", resp.Elements)
	}
}

func TestHandleScrollDownAndUp(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	amount := 400
	resp, err := srv.handleScrollDown(nil, tools.ScrollRequest{Amount: &amount})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "down the page by 400 pixels") {
		t.Errorf("Expected pixel scroll message, got: %s", resp.Message)
	}

	resp, err = srv.handleScrollUp(nil, tools.ScrollRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "up the page by one page") {
		t.Errorf("Expected one-page scroll message, got: %s", resp.Message)
	}
	if len(controller.Scrolled) != 2 {
		t.Errorf("Expected 2 scrolls, got: %d", len(controller.Scrolled))
	}
}

func TestHandleSendKeys(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleSendKeys(nil, tools.SendKeysRequest{Keys: "Control+o"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s", resp.Status)
	}
	if len(controller.SentKeys) != 1 || controller.SentKeys[0] != "Control+o" {
		t.Errorf("Expected Control+o sent, got: %v", controller.SentKeys)
	}
}

func TestHandleScrollToTextNotFound(t *testing.T) {
	controller := &MockController{ActiveSession: true, TextFound: false}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleScrollToText(nil, tools.ScrollToTextRequest{Text: "Pricing"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status for not-found text, got: %s", resp.Status)
	}
	if !strings.Contains(resp.Message, "not found or not visible") {
		t.Errorf("Expected not-found message, got: %s", resp.Message)
	}
}

func TestHandleGetDropdownOptions(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 3, Tag: "select"},
		},
		Options: []browser.DropdownOption{
			{Index: 0, Text: "Red", Value: "r"},
			{Index: 1, Text: "Blue", Value: "b"},
		},
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleGetDropdownOptions(nil, tools.DropdownOptionsRequest{Index: 3})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if !strings.Contains(resp.Message, `0: text="Red"`) {
		t.Errorf("Expected option listing, got: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "Use the exact text string") {
		t.Errorf("Expected usage hint, got: %s", resp.Message)
	}
}

func TestHandleSelectDropdownOption(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		Elements: []browser.ElementInfo{
			{Index: 3, Tag: "select"},
		},
		SelectMessage: "selected option Blue",
	}
	srv, _ := newTestServer(controller)

	resp, err := srv.handleSelectDropdownOption(nil, tools.SelectDropdownOptionRequest{Index: 3, Text: "Blue"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Fatalf("Expected success status, got: %s (%s)", resp.Status, resp.Error)
	}
	if resp.Message != "selected option Blue" {
		t.Errorf("Expected selection message, got: %s", resp.Message)
	}
}

func TestHandleValidatePageExpectedFound(t *testing.T) {
	controller := &MockController{
		ActiveSession: true,
		HTML:          "<html><body>Welcome to Example</body></html>",
	}
	store := &MockHistoryStore{}
	srv := NewBrowserToolServer(controller, store, &MockConverter{Output: "Welcome to Example"},
		telemetry.NewMetricsCollector(), browser.LaunchOptions{})

	resp, err := srv.handleValidatePage(nil, tools.ValidatePageRequest{ExpectedText: "welcome"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "found on page") {
		t.Errorf("Expected found message, got: %s", resp.Message)
	}
}

func TestHandleValidatePageExpectedMissing(t *testing.T) {
	controller := &MockController{ActiveSession: true, HTML: "<html></html>"}
	store := &MockHistoryStore{}
	srv := NewBrowserToolServer(controller, store, &MockConverter{Output: "Something else entirely"},
		telemetry.NewMetricsCollector(), browser.LaunchOptions{})

	resp, err := srv.handleValidatePage(nil, tools.ValidatePageRequest{ExpectedText: "pricing"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(resp.Message, "not found") {
		t.Errorf("Expected not-found warning, got: %s", resp.Message)
	}
	if !strings.Contains(resp.Message, "Page content starts with") {
		t.Errorf("Expected content snippet in warning, got: %s", resp.Message)
	}
}

func TestHandleDone(t *testing.T) {
	srv, store := newTestServer(&MockController{})

	resp, err := srv.handleDone(nil, tools.DoneRequest{Success: true, Text: "Found the answer"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !resp.IsDone {
		t.Error("Expected is_done to be true")
	}
	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.ExtractedContent != "Found the answer" {
		t.Errorf("Expected extracted content, got: %s", resp.ExtractedContent)
	}
	if len(store.Entries) != 1 {
		t.Errorf("Expected 1 history entry, got: %d", len(store.Entries))
	}
}

func TestHistoryFailureDoesNotFailTool(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	store := &MockHistoryStore{ReturnError: true}
	srv := NewBrowserToolServer(controller, store, &MockConverter{},
		telemetry.NewMetricsCollector(), browser.LaunchOptions{})

	resp, err := srv.handleGoToURL(nil, tools.GoToURLRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != tools.StatusSuccess {
		t.Errorf("Expected success status despite history failure, got: %s", resp.Status)
	}
}

func TestTelemetryCountsToolCalls(t *testing.T) {
	controller := &MockController{ActiveSession: true}
	store := &MockHistoryStore{}
	metrics := telemetry.NewMetricsCollector()
	srv := NewBrowserToolServer(controller, store, &MockConverter{}, metrics, browser.LaunchOptions{})

	if _, err := srv.handleGoToURL(nil, tools.GoToURLRequest{URL: "https://example.com"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := srv.handleGoToURL(nil, tools.GoToURLRequest{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := metrics.GetCounter(telemetry.MetricToolCalls); got != 2 {
		t.Errorf("Expected 2 tool calls, got: %d", got)
	}
	if got := metrics.GetCounter(telemetry.MetricToolCallsSuccess); got != 1 {
		t.Errorf("Expected 1 success, got: %d", got)
	}
	if got := metrics.GetCounter(telemetry.MetricToolCallsFailure); got != 1 {
		t.Errorf("Expected 1 failure, got: %d", got)
	}
}
