// Package tools defines the tool names and request/response schemas
// for the browser automation MCP service.
package tools

const (
	// ToolInitializeBrowser is the name of the initialize_browser MCP tool
	ToolInitializeBrowser = "initialize_browser"

	// ToolCloseBrowser is the name of the close_browser MCP tool
	ToolCloseBrowser = "close_browser"

	// ToolSearchGoogle is the name of the search_google MCP tool
	ToolSearchGoogle = "search_google"

	// ToolGoToURL is the name of the go_to_url MCP tool
	ToolGoToURL = "go_to_url"

	// ToolGoBack is the name of the go_back MCP tool
	ToolGoBack = "go_back"

	// ToolWait is the name of the wait MCP tool
	ToolWait = "wait"

	// ToolClickElement is the name of the click_element MCP tool
	ToolClickElement = "click_element"

	// ToolInputText is the name of the input_text MCP tool
	ToolInputText = "input_text"

	// ToolSwitchTab is the name of the switch_tab MCP tool
	ToolSwitchTab = "switch_tab"

	// ToolOpenTab is the name of the open_tab MCP tool
	ToolOpenTab = "open_tab"

	// ToolInspectPage is the name of the inspect_page MCP tool
	ToolInspectPage = "inspect_page"

	// ToolScrollDown is the name of the scroll_down MCP tool
	ToolScrollDown = "scroll_down"

	// ToolScrollUp is the name of the scroll_up MCP tool
	ToolScrollUp = "scroll_up"

	// ToolSendKeys is the name of the send_keys MCP tool
	ToolSendKeys = "send_keys"

	// ToolScrollToText is the name of the scroll_to_text MCP tool
	ToolScrollToText = "scroll_to_text"

	// ToolGetDropdownOptions is the name of the get_dropdown_options MCP tool
	ToolGetDropdownOptions = "get_dropdown_options"

	// ToolSelectDropdownOption is the name of the select_dropdown_option MCP tool
	ToolSelectDropdownOption = "select_dropdown_option"

	// ToolValidatePage is the name of the validate_page MCP tool
	ToolValidatePage = "validate_page"

	// ToolDone is the name of the done MCP tool
	ToolDone = "done"

	// DefaultWaitSeconds is the sleep duration used when a wait request
	// does not specify one
	DefaultWaitSeconds = 3
)

// StatusSuccess and StatusError are the values of the Status field in
// tool responses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// InitializeBrowserRequest defines the input schema for initialize_browser
type InitializeBrowserRequest struct {
	// Headless runs the browser without a visible window
	Headless bool `json:"headless,omitempty"`

	// Task describes what the client is trying to accomplish; it is echoed
	// back in the status message and recorded in history
	Task string `json:"task,omitempty"`
}

// InitializeBrowserResponse defines the output schema for initialize_browser
type InitializeBrowserResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Message is the system-prompt-style status text describing the session
	// and the available actions
	Message string `json:"message,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// CloseBrowserRequest defines the input schema for close_browser
type CloseBrowserRequest struct{}

// SearchGoogleRequest defines the input schema for search_google
type SearchGoogleRequest struct {
	// Query is the search query
	Query string `json:"query"`
}

// GoToURLRequest defines the input schema for go_to_url
type GoToURLRequest struct {
	// URL is the address to navigate to
	URL string `json:"url"`
}

// GoBackRequest defines the input schema for go_back
type GoBackRequest struct{}

// WaitRequest defines the input schema for wait
type WaitRequest struct {
	// Seconds is how long to pause; DefaultWaitSeconds when omitted
	Seconds int `json:"seconds,omitempty"`
}

// ClickElementRequest defines the input schema for click_element
type ClickElementRequest struct {
	// Index identifies the element in the current selector map
	Index int `json:"index"`
}

// InputTextRequest defines the input schema for input_text
type InputTextRequest struct {
	// Index identifies the element in the current selector map
	Index int `json:"index"`

	// Text is typed into the element
	Text string `json:"text"`

	// HasSensitiveData suppresses echoing the text back in results and
	// history entries
	HasSensitiveData bool `json:"has_sensitive_data,omitempty"`
}

// SwitchTabRequest defines the input schema for switch_tab
type SwitchTabRequest struct {
	// PageID is the tab to switch to; negative values index from the end
	PageID int `json:"page_id"`
}

// OpenTabRequest defines the input schema for open_tab
type OpenTabRequest struct {
	// URL is opened in the new tab
	URL string `json:"url"`
}

// InspectPageRequest defines the input schema for inspect_page
type InspectPageRequest struct{}

// InspectPageResponse defines the output schema for inspect_page
type InspectPageResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Elements is the formatted interactive element listing, one
	// [index]<tag ...>text</tag> entry per line
	Elements string `json:"elements,omitempty"`

	// Content is the page content converted to Markdown
	Content string `json:"content,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// ScrollRequest defines the input schema for scroll_down and scroll_up
type ScrollRequest struct {
	// Amount is the scroll distance in pixels; one viewport height when nil
	Amount *int `json:"amount,omitempty"`
}

// SendKeysRequest defines the input schema for send_keys
type SendKeysRequest struct {
	// Keys is a key name or shortcut such as "Enter" or "Control+o"
	Keys string `json:"keys"`
}

// ScrollToTextRequest defines the input schema for scroll_to_text
type ScrollToTextRequest struct {
	// Text to locate and scroll into view
	Text string `json:"text"`
}

// DropdownOptionsRequest defines the input schema for get_dropdown_options
type DropdownOptionsRequest struct {
	// Index identifies the select element in the current selector map
	Index int `json:"index"`
}

// SelectDropdownOptionRequest defines the input schema for select_dropdown_option
type SelectDropdownOptionRequest struct {
	// Index identifies the select element in the current selector map
	Index int `json:"index"`

	// Text is the exact option label to select
	Text string `json:"text"`
}

// ValidatePageRequest defines the input schema for validate_page
type ValidatePageRequest struct {
	// ExpectedText, when set, is searched for in the page content
	ExpectedText string `json:"expected_text,omitempty"`
}

// DoneRequest defines the input schema for done
type DoneRequest struct {
	// Success reports whether the overall task succeeded
	Success bool `json:"success"`

	// Text is the final extracted content or summary
	Text string `json:"text"`
}

// DoneResponse defines the output schema for done
type DoneResponse struct {
	// IsDone is always true
	IsDone bool `json:"is_done"`

	// Success mirrors the request
	Success bool `json:"success"`

	// ExtractedContent mirrors the request text
	ExtractedContent string `json:"extracted_content"`
}

// ActionResponse is the shared output schema for tools whose result is a
// single status message (navigation, clicking, typing, scrolling, waiting)
type ActionResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Message describes what happened
	Message string `json:"message,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// OK builds a success ActionResponse with the given message.
func OK(message string) ActionResponse {
	return ActionResponse{Status: StatusSuccess, Message: message}
}

// Fail builds an error ActionResponse with the given error text.
func Fail(err string) ActionResponse {
	return ActionResponse{Status: StatusError, Error: err}
}
