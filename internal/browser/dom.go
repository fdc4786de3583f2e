package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// snapshotScript walks the DOM for visible interactive elements and returns
// them as a JSON array. Each element gets a stable index and an absolute
// XPath used later to resolve click/fill targets.
const snapshotScript = `() => {
	const isVisible = (el) => {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return rect.width > 0 && rect.height > 0 &&
			style.visibility !== 'hidden' && style.display !== 'none';
	};
	const xpathFor = (el) => {
		const parts = [];
		while (el && el.nodeType === Node.ELEMENT_NODE) {
			let position = 1;
			let sibling = el.previousElementSibling;
			while (sibling) {
				if (sibling.tagName === el.tagName) position++;
				sibling = sibling.previousElementSibling;
			}
			parts.unshift(el.tagName.toLowerCase() + '[' + position + ']');
			el = el.parentElement;
		}
		return '/' + parts.join('/');
	};
	const kept = ['type', 'role', 'placeholder', 'aria-label', 'title', 'name', 'value', 'href'];
	const selector = 'a, button, input, select, textarea, [role="button"], [role="link"], [onclick], [contenteditable="true"]';
	const seen = new Set();
	const elements = [];
	let index = 0;
	for (const el of document.querySelectorAll(selector)) {
		if (seen.has(el) || !isVisible(el)) continue;
		seen.add(el);
		const attributes = {};
		for (const name of kept) {
			const value = el.getAttribute(name);
			if (value) attributes[name] = value;
		}
		const text = (el.innerText || el.value || '').trim().replace(/\s+/g, ' ').slice(0, 200);
		const isFileUploader = (el.tagName === 'INPUT' && el.type === 'file') ||
			!!el.querySelector('input[type="file"]');
		elements.push({
			index: index++,
			tag: el.tagName.toLowerCase(),
			xpath: xpathFor(el),
			text: text,
			attributes: attributes,
			isFileUploader: isFileUploader
		});
	}
	return JSON.stringify(elements);
}`

// dropdownOptionsScript resolves a select element by XPath within a frame
// and returns its options.
const dropdownOptionsScript = `(xpath) => {
	const select = document.evaluate(xpath, document, null,
		XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!select) return null;
	return {
		options: Array.from(select.options).map(opt => ({
			text: opt.text,
			value: opt.value,
			index: opt.index
		})),
		id: select.id,
		name: select.name
	};
}`

// findDropdownScript checks that the element at the XPath exists in a frame
// and really is a select before attempting selection.
const findDropdownScript = `(xpath) => {
	try {
		const select = document.evaluate(xpath, document, null,
			XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!select) return null;
		if (select.tagName.toLowerCase() !== 'select') {
			return { found: false };
		}
		return { found: true, optionCount: select.options.length };
	} catch (e) {
		return { found: false };
	}
}`

// decodeSnapshot parses the JSON produced by snapshotScript.
func decodeSnapshot(raw interface{}) ([]ElementInfo, error) {
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot result type %T", raw)
	}

	var elements []ElementInfo
	if err := json.Unmarshal([]byte(text), &elements); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return elements, nil
}

// attributeOrder fixes the attribute rendering order in element listings so
// output is deterministic.
var attributeOrder = []string{"type", "role", "placeholder", "aria-label", "title", "name", "value", "href"}

// FormatElement renders one selector-map entry the way inspect_page lists
// interactive elements: [index]<tag attr="value">text</tag>.
func FormatElement(el ElementInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]<%s", el.Index, el.Tag)
	for _, name := range attributeOrder {
		if value, ok := el.Attributes[name]; ok {
			fmt.Fprintf(&b, " %s=%q", name, value)
		}
	}
	b.WriteString(">")
	b.WriteString(el.Text)
	fmt.Fprintf(&b, "</%s>", el.Tag)
	return b.String()
}

// FormatElements renders the whole selector map, one element per line.
func FormatElements(elements []ElementInfo) string {
	if len(elements) == 0 {
		return "No interactive elements found on the page"
	}

	lines := make([]string, 0, len(elements))
	for _, el := range elements {
		lines = append(lines, FormatElement(el))
	}
	return strings.Join(lines, "\n")
}

// FormatDropdownOptions renders dropdown options the way
// get_dropdown_options reports them, one option per line with the text
// JSON-encoded so exact whitespace is visible.
func FormatDropdownOptions(options []DropdownOption) string {
	if len(options) == 0 {
		return "No options found in any frame for dropdown"
	}

	lines := make([]string, 0, len(options)+1)
	for _, opt := range options {
		encoded, _ := json.Marshal(opt.Text)
		lines = append(lines, fmt.Sprintf("%d: text=%s", opt.Index, encoded))
	}
	lines = append(lines, "Use the exact text string in select_dropdown_option")
	return strings.Join(lines, "\n")
}
