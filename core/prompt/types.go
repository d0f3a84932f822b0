package prompt

import (
	"slices"
	"strings"
)

// componentTypes is the closed set of component types the editor renders.
var componentTypes = []string{
	"avatar", "badge", "button", "card", "chart", "checkbox", "container",
	"divider", "footer", "form", "grid", "header", "heading", "icon", "image",
	"input", "link", "list", "modal", "navbar", "radio", "select", "sidebar",
	"table", "tabs", "text", "textarea",
}

// propertyHints lists the properties the editor understands per type.
var propertyHints = map[string]string{
	"button":    "text (string), variant (primary|secondary|outline|ghost|danger), size (sm|md|lg), disabled (boolean), onClick (string action name)",
	"input":     "placeholder (string), label (string), inputType (text|email|password|number|tel|url), required (boolean), disabled (boolean)",
	"textarea":  "placeholder (string), label (string), rows (number), required (boolean)",
	"select":    "label (string), options (array of {label, value}), placeholder (string), multiple (boolean)",
	"checkbox":  "label (string), checked (boolean), disabled (boolean)",
	"radio":     "label (string), options (array of {label, value}), value (string)",
	"text":      "content (string), fontSize (number), fontWeight (normal|bold), color (string), align (left|center|right)",
	"heading":   "content (string), level (1-6), color (string), align (left|center|right)",
	"image":     "src (string URL), alt (string), width (number), height (number), objectFit (cover|contain)",
	"card":      "title (string), subtitle (string), padding (number), shadow (none|sm|md|lg), borderRadius (number)",
	"container": "padding (number), gap (number), direction (row|column), align (start|center|end), background (string)",
	"grid":      "columns (number), gap (number), rowHeight (number)",
	"form":      "title (string), submitText (string), action (string), method (GET|POST)",
	"table":     "columns (array of {key, title}), rows (array of objects), striped (boolean), pagination (boolean)",
	"list":      "items (array of strings), ordered (boolean), icon (string)",
	"navbar":    "brand (string), links (array of {label, href}), sticky (boolean)",
	"header":    "title (string), subtitle (string), background (string)",
	"sidebar":   "items (array of {label, href, icon}), collapsed (boolean), width (number)",
	"footer":    "text (string), links (array of {label, href})",
	"modal":     "title (string), open (boolean), size (sm|md|lg), closable (boolean)",
	"tabs":      "tabs (array of {label, key}), activeKey (string)",
	"chart":     "chartType (bar|line|pie|area), title (string), data (array of {label, value})",
	"link":      "text (string), href (string), target (_self|_blank)",
	"icon":      "name (string), size (number), color (string)",
	"badge":     "text (string), color (string), variant (solid|outline)",
	"avatar":    "src (string URL), name (string), size (sm|md|lg)",
	"divider":   "orientation (horizontal|vertical), thickness (number)",
}

// inferenceKeywords maps description keywords to a type, checked in order so
// more specific words win.
var inferenceKeywords = []struct {
	keyword       string
	componentType string
}{
	{"navigation", "navbar"},
	{"navbar", "navbar"},
	{"menu", "navbar"},
	{"sidebar", "sidebar"},
	{"footer", "footer"},
	{"header", "header"},
	{"textarea", "textarea"},
	{"text area", "textarea"},
	{"dropdown", "select"},
	{"select", "select"},
	{"checkbox", "checkbox"},
	{"radio", "radio"},
	{"button", "button"},
	{"input", "input"},
	{"field", "input"},
	{"form", "form"},
	{"table", "table"},
	{"chart", "chart"},
	{"graph", "chart"},
	{"image", "image"},
	{"picture", "image"},
	{"photo", "image"},
	{"card", "card"},
	{"modal", "modal"},
	{"dialog", "modal"},
	{"tabs", "tabs"},
	{"list", "list"},
	{"link", "link"},
	{"icon", "icon"},
	{"badge", "badge"},
	{"avatar", "avatar"},
	{"divider", "divider"},
	{"grid", "grid"},
	{"title", "heading"},
	{"heading", "heading"},
	{"paragraph", "text"},
	{"text", "text"},
	{"label", "text"},
}

// IsValidComponentType reports whether componentType belongs to the known
// set. It decides whether property hints are added to a prompt; unknown
// types are still generated.
func IsValidComponentType(componentType string) bool {
	return slices.Contains(componentTypes, strings.ToLower(componentType))
}

// ComponentTypes returns the known component types, sorted.
func ComponentTypes() []string {
	return slices.Clone(componentTypes)
}

// InferComponentType guesses a type from a free-text description. It returns
// "" when no keyword matches.
func InferComponentType(description string) string {
	lowered := strings.ToLower(description)
	for _, entry := range inferenceKeywords {
		if strings.Contains(lowered, entry.keyword) {
			return entry.componentType
		}
	}
	return ""
}

// PropertyHints returns the property hint line for componentType, or "".
func PropertyHints(componentType string) string {
	return propertyHints[strings.ToLower(componentType)]
}
