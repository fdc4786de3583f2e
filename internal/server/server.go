package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/localrivet/gomcp/server"

	"github.com/praveen92y/mcp-browser-use/internal/browser"
	"github.com/praveen92y/mcp-browser-use/internal/errortypes"
	"github.com/praveen92y/mcp-browser-use/internal/history"
	"github.com/praveen92y/mcp-browser-use/internal/markdown"
	"github.com/praveen92y/mcp-browser-use/internal/telemetry"
	"github.com/praveen92y/mcp-browser-use/internal/tools"
	"github.com/praveen92y/mcp-browser-use/internal/util"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

const (
	// resultSnippetLength caps the result text stored in history entries.
	resultSnippetLength = 200

	// validateSnippetLength / validateMissSnippetLength are the content
	// snippet sizes returned by validate_page with and without an
	// expected-text match target.
	validateSnippetLength     = 500
	validateMissSnippetLength = 200
)

// BrowserToolServer implements the ToolServer interface for handling MCP
// tool calls that drive a browser session.
type BrowserToolServer struct {
	controller browser.Controller
	store      history.Store
	converter  markdown.Converter
	metrics    *telemetry.MetricsCollector
	launchOpts browser.LaunchOptions
	mcpServer  server.Server
}

// NewBrowserToolServer creates a new BrowserToolServer instance. launchOpts
// supplies the configured defaults applied when initialize_browser runs.
func NewBrowserToolServer(controller browser.Controller, store history.Store, converter markdown.Converter, metrics *telemetry.MetricsCollector, launchOpts browser.LaunchOptions) *BrowserToolServer {
	return &BrowserToolServer{
		controller: controller,
		store:      store,
		converter:  converter,
		metrics:    metrics,
		launchOpts: launchOpts,
	}
}

// Initialize initializes the server with dependencies and configurations.
func (s *BrowserToolServer) Initialize() error {
	slog.Info("Initializing MCP Browser Tool Server")

	if s.controller == nil || s.store == nil || s.converter == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewMetricsCollector()
	}

	// Create the MCP server
	srv := server.NewServer("mcp-browser-use")

	// Register browser lifecycle tools
	srv = srv.Tool(tools.ToolInitializeBrowser, "Initialize a browser session using the system default browser",
		s.handleInitializeBrowser)
	srv = srv.Tool(tools.ToolCloseBrowser, "Close the current browser session",
		s.handleCloseBrowser)

	// Register navigation tools
	srv = srv.Tool(tools.ToolSearchGoogle, "Search a query in Google in the current tab",
		s.handleSearchGoogle)
	srv = srv.Tool(tools.ToolGoToURL, "Navigate to a URL in the current tab",
		s.handleGoToURL)
	srv = srv.Tool(tools.ToolGoBack, "Go back in the current tab's history",
		s.handleGoBack)
	srv = srv.Tool(tools.ToolWait, "Wait for a number of seconds (default 3)",
		s.handleWait)

	// Register element interaction tools
	srv = srv.Tool(tools.ToolClickElement, "Click the element with the given index",
		s.handleClickElement)
	srv = srv.Tool(tools.ToolInputText, "Input text into the element with the given index",
		s.handleInputText)

	// Register tab tools
	srv = srv.Tool(tools.ToolSwitchTab, "Switch to the tab with the given page id",
		s.handleSwitchTab)
	srv = srv.Tool(tools.ToolOpenTab, "Open a URL in a new tab",
		s.handleOpenTab)

	// Register page inspection tools
	srv = srv.Tool(tools.ToolInspectPage, "List the interactive elements and content of the current page",
		s.handleInspectPage)

	// Register scrolling tools
	srv = srv.Tool(tools.ToolScrollDown, "Scroll down the page by pixel amount, or one page when omitted",
		s.handleScrollDown)
	srv = srv.Tool(tools.ToolScrollUp, "Scroll up the page by pixel amount, or one page when omitted",
		s.handleScrollUp)
	srv = srv.Tool(tools.ToolSendKeys, "Send keyboard keys such as Enter, Escape or shortcuts like Control+o",
		s.handleSendKeys)
	srv = srv.Tool(tools.ToolScrollToText, "Scroll to the first visible occurrence of the given text",
		s.handleScrollToText)

	// Register dropdown tools
	srv = srv.Tool(tools.ToolGetDropdownOptions, "Get all options from a native dropdown",
		s.handleGetDropdownOptions)
	srv = srv.Tool(tools.ToolSelectDropdownOption, "Select a dropdown option by the text of the option",
		s.handleSelectDropdownOption)

	// Register completion tools
	srv = srv.Tool(tools.ToolValidatePage, "Validate the current page content, optionally checking for expected text",
		s.handleValidatePage)
	srv = srv.Tool(tools.ToolDone, "Complete the task and return the final result",
		s.handleDone)

	s.mcpServer = srv
	slog.Info("MCP Browser Tool Server initialized successfully", "tool_count", 19)
	return nil
}

// Start starts the MCP server on the stdio transport.
func (s *BrowserToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	slog.Info("Starting MCP Browser Tool Server")

	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *BrowserToolServer) Stop() error {
	slog.Info("Stopping MCP Browser Tool Server")

	if s.controller != nil && s.controller.Active() {
		if err := s.controller.Close(); err != nil {
			slog.Warn("Error closing browser during shutdown", "error", err)
		}
	}
	// The server will exit when stdin is closed
	return nil
}

// record stores a history entry for a completed tool call and updates the
// telemetry counters. History failures are logged, never surfaced.
func (s *BrowserToolServer) record(tool, args, status, result string) {
	now := time.Now()

	s.metrics.IncrementCounter(telemetry.MetricToolCalls, 1)
	s.metrics.IncrementCounter(telemetry.ToolCallMetric(tool), 1)
	if status == tools.StatusSuccess {
		s.metrics.IncrementCounter(telemetry.MetricToolCallsSuccess, 1)
	} else {
		s.metrics.IncrementCounter(telemetry.MetricToolCallsFailure, 1)
	}
	s.metrics.RecordTimestamp(telemetry.MetricLastToolCall)

	entry := history.Entry{
		ID:        util.GenerateHash(tool+args+result, now.UnixNano()),
		Tool:      tool,
		Args:      args,
		Status:    status,
		Result:    markdown.Snippet(result, resultSnippetLength),
		Timestamp: now,
	}
	if err := s.store.Record(entry); err != nil {
		slog.Warn("Failed to record history entry", "tool", tool, "error", err)
	}
}

// fail builds an error response and records it.
func (s *BrowserToolServer) fail(tool, args string, err error) tools.ActionResponse {
	errortypes.LogError(nil, err)
	s.record(tool, args, tools.StatusError, err.Error())
	return tools.Fail(err.Error())
}

// ok builds a success response and records it.
func (s *BrowserToolServer) ok(tool, args, message string) tools.ActionResponse {
	s.record(tool, args, tools.StatusSuccess, message)
	return tools.OK(message)
}

// handleInitializeBrowser handles the initialize_browser MCP tool call.
func (s *BrowserToolServer) handleInitializeBrowser(ctx *server.Context, req tools.InitializeBrowserRequest) (tools.InitializeBrowserResponse, error) {
	slog.Info("Processing initialize_browser request", "headless", req.Headless, "task", req.Task)

	start := time.Now()
	opts := s.launchOpts
	opts.Headless = req.Headless

	info, err := s.controller.Launch(opts)
	if err != nil {
		err = errortypes.BrowserError(err, "failed to initialize browser").
			WithField("headless", req.Headless)
		errortypes.LogError(nil, err)
		s.record(tools.ToolInitializeBrowser, fmt.Sprintf("headless=%t", req.Headless), tools.StatusError, err.Error())

		return tools.InitializeBrowserResponse{
			Status: tools.StatusError,
			Error:  err.Error(),
		}, nil
	}

	s.metrics.IncrementCounter(telemetry.MetricBrowserLaunches, 1)
	s.metrics.RecordTimestamp(telemetry.MetricLastLaunch)
	s.metrics.RecordTimer(telemetry.MetricToolDuration, time.Since(start))

	mode := "visible"
	if info.Headless {
		mode = "headless"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Browser initialized (%s, %s mode).\n", info.Kind, mode)
	if req.Task != "" {
		fmt.Fprintf(&b, "Task: %s\n", req.Task)
	}
	b.WriteString("Available actions: search_google, go_to_url, go_back, wait, " +
		"click_element, input_text, switch_tab, open_tab, inspect_page, " +
		"scroll_down, scroll_up, send_keys, scroll_to_text, " +
		"get_dropdown_options, select_dropdown_option, validate_page, done.\n" +
		"Use inspect_page to see the interactive elements, then interact by index.")
	message := b.String()

	s.record(tools.ToolInitializeBrowser, fmt.Sprintf("headless=%t task=%s", req.Headless, req.Task),
		tools.StatusSuccess, "browser initialized")
	slog.Info("Browser session initialized", "session_id", info.SessionID, "kind", info.Kind, "mode", mode)

	return tools.InitializeBrowserResponse{
		Status:  tools.StatusSuccess,
		Message: message,
	}, nil
}

// handleCloseBrowser handles the close_browser MCP tool call.
func (s *BrowserToolServer) handleCloseBrowser(ctx *server.Context, req tools.CloseBrowserRequest) (tools.ActionResponse, error) {
	slog.Info("Processing close_browser request")

	if !s.controller.Active() {
		return s.ok(tools.ToolCloseBrowser, "", "No browser session to close"), nil
	}

	if err := s.controller.Close(); err != nil {
		return s.fail(tools.ToolCloseBrowser, "",
			errortypes.BrowserError(err, "failed to close browser")), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricBrowserCloses, 1)
	return s.ok(tools.ToolCloseBrowser, "", "Browser closed successfully"), nil
}

// handleSearchGoogle handles the search_google MCP tool call.
func (s *BrowserToolServer) handleSearchGoogle(ctx *server.Context, req tools.SearchGoogleRequest) (tools.ActionResponse, error) {
	slog.Info("Processing search_google request", "query", req.Query)

	if req.Query == "" {
		return s.fail(tools.ToolSearchGoogle, "",
			errortypes.ValidationError(errors.New("query cannot be empty"), "invalid search_google request")), nil
	}

	// udm=14 selects the plain web results tab
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(req.Query) + "&udm=14"

	start := time.Now()
	if err := s.controller.Navigate(searchURL); err != nil {
		return s.fail(tools.ToolSearchGoogle, req.Query,
			navigationError(err, "failed to search Google", searchURL)), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricNavigations, 1)
	s.metrics.RecordTimer(telemetry.MetricNavigationDuration, time.Since(start))

	return s.ok(tools.ToolSearchGoogle, req.Query,
		fmt.Sprintf("🔍 Searched for %q in Google", req.Query)), nil
}

// handleGoToURL handles the go_to_url MCP tool call.
func (s *BrowserToolServer) handleGoToURL(ctx *server.Context, req tools.GoToURLRequest) (tools.ActionResponse, error) {
	slog.Info("Processing go_to_url request", "url", req.URL)

	if req.URL == "" {
		return s.fail(tools.ToolGoToURL, "",
			errortypes.ValidationError(errors.New("url cannot be empty"), "invalid go_to_url request")), nil
	}

	start := time.Now()
	if err := s.controller.Navigate(req.URL); err != nil {
		return s.fail(tools.ToolGoToURL, req.URL,
			navigationError(err, "failed to navigate", req.URL)), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricNavigations, 1)
	s.metrics.RecordTimer(telemetry.MetricNavigationDuration, time.Since(start))

	return s.ok(tools.ToolGoToURL, req.URL, fmt.Sprintf("🔗 Navigated to %s", req.URL)), nil
}

// handleGoBack handles the go_back MCP tool call.
func (s *BrowserToolServer) handleGoBack(ctx *server.Context, req tools.GoBackRequest) (tools.ActionResponse, error) {
	slog.Info("Processing go_back request")

	if err := s.controller.GoBack(); err != nil {
		return s.fail(tools.ToolGoBack,
			"", navigationError(err, "failed to go back", s.controller.CurrentURL())), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricNavigations, 1)
	return s.ok(tools.ToolGoBack, "", "🔙 Navigated back"), nil
}

// handleWait handles the wait MCP tool call.
func (s *BrowserToolServer) handleWait(ctx *server.Context, req tools.WaitRequest) (tools.ActionResponse, error) {
	seconds := req.Seconds
	if seconds <= 0 {
		seconds = tools.DefaultWaitSeconds
	}
	slog.Info("Processing wait request", "seconds", seconds)

	time.Sleep(time.Duration(seconds) * time.Second)

	return s.ok(tools.ToolWait, fmt.Sprintf("seconds=%d", seconds),
		fmt.Sprintf("🕒 Waited for %d seconds", seconds)), nil
}

// handleClickElement handles the click_element MCP tool call.
func (s *BrowserToolServer) handleClickElement(ctx *server.Context, req tools.ClickElementRequest) (tools.ActionResponse, error) {
	slog.Info("Processing click_element request", "index", req.Index)
	args := fmt.Sprintf("index=%d", req.Index)

	if !s.controller.Active() {
		return s.fail(tools.ToolClickElement, args, browser.ErrNoSession), nil
	}

	el, ok := s.controller.Element(req.Index)
	if !ok {
		err := errortypes.ValidationError(
			fmt.Errorf("element with index %d does not exist - retry inspect_page or use alternative actions", req.Index),
			"unknown element index")
		return s.fail(tools.ToolClickElement, args, err), nil
	}

	if el.IsFileUploader {
		err := errortypes.ValidationError(
			fmt.Errorf("index %d has a file uploader - file uploads need a dedicated flow", req.Index),
			"refusing to click file uploader")
		return s.fail(tools.ToolClickElement, args, err), nil
	}

	result, err := s.controller.ClickElement(req.Index)
	if err != nil {
		return s.fail(tools.ToolClickElement, args,
			errortypes.BrowserError(err, "failed to click element").WithField("index", req.Index)), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricClicks, 1)

	var message string
	if result.DownloadPath != "" {
		s.metrics.IncrementCounter(telemetry.MetricDownloads, 1)
		message = fmt.Sprintf("💾 Downloaded file to %s", result.DownloadPath)
	} else {
		message = fmt.Sprintf("🖱️ Clicked button with index %d: %s", req.Index, result.Text)
	}
	if result.NewTabOpened {
		message += " - New tab opened - switching to it"
	}

	return s.ok(tools.ToolClickElement, args, message), nil
}

// handleInputText handles the input_text MCP tool call.
func (s *BrowserToolServer) handleInputText(ctx *server.Context, req tools.InputTextRequest) (tools.ActionResponse, error) {
	slog.Info("Processing input_text request", "index", req.Index, "sensitive", req.HasSensitiveData)

	// History and results never see sensitive text.
	args := fmt.Sprintf("index=%d text=%s", req.Index, req.Text)
	if req.HasSensitiveData {
		args = fmt.Sprintf("index=%d text=<redacted>", req.Index)
	}

	if !s.controller.Active() {
		return s.fail(tools.ToolInputText, args, browser.ErrNoSession), nil
	}

	if _, ok := s.controller.Element(req.Index); !ok {
		err := errortypes.ValidationError(
			fmt.Errorf("element with index %d does not exist - retry inspect_page or use alternative actions", req.Index),
			"unknown element index")
		return s.fail(tools.ToolInputText, args, err), nil
	}

	if err := s.controller.FillElement(req.Index, req.Text); err != nil {
		return s.fail(tools.ToolInputText, args,
			errortypes.BrowserError(err, "failed to input text").WithField("index", req.Index)), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricInputs, 1)

	message := fmt.Sprintf("⌨️ Input %s into index %d", req.Text, req.Index)
	if req.HasSensitiveData {
		message = fmt.Sprintf("⌨️ Input sensitive data into index %d", req.Index)
	}
	return s.ok(tools.ToolInputText, args, message), nil
}

// handleSwitchTab handles the switch_tab MCP tool call.
func (s *BrowserToolServer) handleSwitchTab(ctx *server.Context, req tools.SwitchTabRequest) (tools.ActionResponse, error) {
	slog.Info("Processing switch_tab request", "page_id", req.PageID)
	args := fmt.Sprintf("page_id=%d", req.PageID)

	if err := s.controller.SwitchTab(req.PageID); err != nil {
		return s.fail(tools.ToolSwitchTab, args,
			errortypes.BrowserError(err, "failed to switch tab").WithField("page_id", req.PageID)), nil
	}

	return s.ok(tools.ToolSwitchTab, args, fmt.Sprintf("🔄 Switched to tab %d", req.PageID)), nil
}

// handleOpenTab handles the open_tab MCP tool call.
func (s *BrowserToolServer) handleOpenTab(ctx *server.Context, req tools.OpenTabRequest) (tools.ActionResponse, error) {
	slog.Info("Processing open_tab request", "url", req.URL)

	if req.URL == "" {
		return s.fail(tools.ToolOpenTab, "",
			errortypes.ValidationError(errors.New("url cannot be empty"), "invalid open_tab request")), nil
	}

	if err := s.controller.OpenTab(req.URL); err != nil {
		return s.fail(tools.ToolOpenTab, req.URL,
			navigationError(err, "failed to open tab", req.URL)), nil
	}

	s.metrics.IncrementCounter(telemetry.MetricTabsOpened, 1)
	return s.ok(tools.ToolOpenTab, req.URL, fmt.Sprintf("🔗 Opened new tab with %s", req.URL)), nil
}

// handleInspectPage handles the inspect_page MCP tool call.
func (s *BrowserToolServer) handleInspectPage(ctx *server.Context, req tools.InspectPageRequest) (tools.InspectPageResponse, error) {
	slog.Info("Processing inspect_page request")

	response := tools.InspectPageResponse{
		Status: tools.StatusSuccess,
	}

	start := time.Now()
	elements, err := s.controller.Snapshot()
	if err != nil {
		err = errortypes.BrowserError(err, "failed to inspect page")
		errortypes.LogError(nil, err)
		s.record(tools.ToolInspectPage, "", tools.StatusError, err.Error())

		response.Status = tools.StatusError
		response.Error = err.Error()
		return response, nil
	}
	s.metrics.RecordTimer(telemetry.MetricSnapshotDuration, time.Since(start))

	response.Elements = browser.FormatElements(elements)

	// Page content is best-effort; the element listing alone is useful.
	html, err := s.controller.PageContent()
	if err == nil {
		content, convErr := s.converter.Convert(html)
		if convErr != nil {
			slog.Warn("Failed to convert page content", "error", convErr)
		} else {
			response.Content = content
		}
	} else {
		slog.Warn("Failed to read page content", "error", err)
	}

	s.record(tools.ToolInspectPage, "", tools.StatusSuccess,
		fmt.Sprintf("%d interactive elements", len(elements)))
	return response, nil
}

// handleScrollDown handles the scroll_down MCP tool call.
func (s *BrowserToolServer) handleScrollDown(ctx *server.Context, req tools.ScrollRequest) (tools.ActionResponse, error) {
	return s.scroll(tools.ToolScrollDown, req.Amount, true), nil
}

// handleScrollUp handles the scroll_up MCP tool call.
func (s *BrowserToolServer) handleScrollUp(ctx *server.Context, req tools.ScrollRequest) (tools.ActionResponse, error) {
	return s.scroll(tools.ToolScrollUp, req.Amount, false), nil
}

// scroll implements scroll_down and scroll_up.
func (s *BrowserToolServer) scroll(tool string, amount *int, down bool) tools.ActionResponse {
	direction := "down"
	if !down {
		direction = "up"
	}
	slog.Info("Processing scroll request", "direction", direction)

	args := "amount=page"
	if amount != nil {
		args = fmt.Sprintf("amount=%d", *amount)
	}

	if err := s.controller.Scroll(amount, down); err != nil {
		return s.fail(tool, args,
			errortypes.BrowserError(err, "failed to scroll "+direction))
	}

	if amount != nil {
		return s.ok(tool, args, fmt.Sprintf("🔍 Scrolled %s the page by %d pixels", direction, *amount))
	}
	return s.ok(tool, args, fmt.Sprintf("🔍 Scrolled %s the page by one page", direction))
}

// handleSendKeys handles the send_keys MCP tool call.
func (s *BrowserToolServer) handleSendKeys(ctx *server.Context, req tools.SendKeysRequest) (tools.ActionResponse, error) {
	slog.Info("Processing send_keys request", "keys", req.Keys)

	if req.Keys == "" {
		return s.fail(tools.ToolSendKeys, "",
			errortypes.ValidationError(errors.New("keys cannot be empty"), "invalid send_keys request")), nil
	}

	if err := s.controller.SendKeys(req.Keys); err != nil {
		return s.fail(tools.ToolSendKeys, req.Keys,
			errortypes.BrowserError(err, "failed to send keys").WithField("keys", req.Keys)), nil
	}

	return s.ok(tools.ToolSendKeys, req.Keys, fmt.Sprintf("⌨️ Sent keys: %s", req.Keys)), nil
}

// handleScrollToText handles the scroll_to_text MCP tool call.
func (s *BrowserToolServer) handleScrollToText(ctx *server.Context, req tools.ScrollToTextRequest) (tools.ActionResponse, error) {
	slog.Info("Processing scroll_to_text request", "text", req.Text)

	if req.Text == "" {
		return s.fail(tools.ToolScrollToText, "",
			errortypes.ValidationError(errors.New("text cannot be empty"), "invalid scroll_to_text request")), nil
	}

	found, err := s.controller.ScrollToText(req.Text)
	if err != nil {
		return s.fail(tools.ToolScrollToText, req.Text,
			errortypes.BrowserError(err, "failed to scroll to text").WithField("text", req.Text)), nil
	}

	if !found {
		// Not an error: the client can scroll manually instead.
		return s.ok(tools.ToolScrollToText, req.Text,
			fmt.Sprintf("Text '%s' not found or not visible on page", req.Text)), nil
	}
	return s.ok(tools.ToolScrollToText, req.Text, fmt.Sprintf("🔍 Scrolled to text: %s", req.Text)), nil
}

// handleGetDropdownOptions handles the get_dropdown_options MCP tool call.
func (s *BrowserToolServer) handleGetDropdownOptions(ctx *server.Context, req tools.DropdownOptionsRequest) (tools.ActionResponse, error) {
	slog.Info("Processing get_dropdown_options request", "index", req.Index)
	args := fmt.Sprintf("index=%d", req.Index)

	if !s.controller.Active() {
		return s.fail(tools.ToolGetDropdownOptions, args, browser.ErrNoSession), nil
	}

	if _, ok := s.controller.Element(req.Index); !ok {
		err := errortypes.ValidationError(
			fmt.Errorf("element with index %d does not exist - retry inspect_page or use alternative actions", req.Index),
			"unknown element index")
		return s.fail(tools.ToolGetDropdownOptions, args, err), nil
	}

	options, err := s.controller.DropdownOptions(req.Index)
	if err != nil {
		return s.fail(tools.ToolGetDropdownOptions, args,
			errortypes.BrowserError(err, "failed to get dropdown options").WithField("index", req.Index)), nil
	}

	return s.ok(tools.ToolGetDropdownOptions, args, browser.FormatDropdownOptions(options)), nil
}

// handleSelectDropdownOption handles the select_dropdown_option MCP tool call.
func (s *BrowserToolServer) handleSelectDropdownOption(ctx *server.Context, req tools.SelectDropdownOptionRequest) (tools.ActionResponse, error) {
	slog.Info("Processing select_dropdown_option request", "index", req.Index, "text", req.Text)
	args := fmt.Sprintf("index=%d text=%s", req.Index, req.Text)

	if !s.controller.Active() {
		return s.fail(tools.ToolSelectDropdownOption, args, browser.ErrNoSession), nil
	}

	message, err := s.controller.SelectDropdown(req.Index, req.Text)
	if err != nil {
		return s.fail(tools.ToolSelectDropdownOption, args,
			errortypes.BrowserError(err, "failed to select dropdown option").
				WithField("index", req.Index).
				WithField("text", req.Text)), nil
	}

	return s.ok(tools.ToolSelectDropdownOption, args, message), nil
}

// handleValidatePage handles the validate_page MCP tool call.
func (s *BrowserToolServer) handleValidatePage(ctx *server.Context, req tools.ValidatePageRequest) (tools.ActionResponse, error) {
	slog.Info("Processing validate_page request", "expected_text", req.ExpectedText)

	html, err := s.controller.PageContent()
	if err != nil {
		return s.fail(tools.ToolValidatePage, req.ExpectedText,
			errortypes.BrowserError(err, "failed to read page content")), nil
	}

	content, err := s.converter.Convert(html)
	if err != nil {
		return s.fail(tools.ToolValidatePage, req.ExpectedText,
			errortypes.InternalError(err, "failed to convert page content")), nil
	}

	if req.ExpectedText != "" {
		if markdown.ContainsFold(content, req.ExpectedText) {
			return s.ok(tools.ToolValidatePage, req.ExpectedText,
				fmt.Sprintf("✅ Expected text '%s' found on page", req.ExpectedText)), nil
		}
		return s.ok(tools.ToolValidatePage, req.ExpectedText,
			fmt.Sprintf("⚠ Expected text '%s' not found. Page content starts with: %s",
				req.ExpectedText, markdown.Snippet(content, validateMissSnippetLength))), nil
	}

	return s.ok(tools.ToolValidatePage, "",
		fmt.Sprintf("Page content: %s", markdown.Snippet(content, validateSnippetLength))), nil
}

// handleDone handles the done MCP tool call.
func (s *BrowserToolServer) handleDone(ctx *server.Context, req tools.DoneRequest) (tools.DoneResponse, error) {
	slog.Info("Processing done request", "success", req.Success)

	status := tools.StatusSuccess
	if !req.Success {
		status = tools.StatusError
	}
	s.record(tools.ToolDone, fmt.Sprintf("success=%t", req.Success), status, req.Text)

	return tools.DoneResponse{
		IsDone:           true,
		Success:          req.Success,
		ExtractedContent: req.Text,
	}, nil
}

// navigationError wraps a navigation failure with the target URL; a plain
// no-session error passes through untouched so its message stays actionable.
func navigationError(err error, message, target string) error {
	if errors.Is(err, browser.ErrNoSession) {
		return err
	}
	return errortypes.NavigationError(err, message).WithField("url", target)
}
