package prompt

import (
	"fmt"
	"strings"

	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
)

const pageSystemPrompt = `You are an expert UI designer that builds complete pages for a visual page editor.
Respond with a single JSON object with these fields:
- "version": the schema version, "1.0.0"
- "metadata": an object with "name" and "description"
- "components": an array of top-level components; each has "type", "name", "position" ({"x", "y"} in pixels), "properties" and optional "children"
- "canvas": an object with "showGrid", "snapToGrid", "viewportWidth" and "activeDevice"
- "theme": an object with colors and typography
Lay components out without overlaps, top to bottom. Do not include explanations.`

// Layout is the overall arrangement of a generated page.
type Layout string

const (
	LayoutCentered  Layout = "centered"
	LayoutFullWidth Layout = "full-width"
	LayoutSidebar   Layout = "sidebar"
	LayoutGrid      Layout = "grid"
)

var layoutGuidelines = map[Layout]string{
	LayoutCentered:  "Center the content in a single column about 800px wide; keep generous vertical spacing between sections.",
	LayoutFullWidth: "Stretch sections across the full viewport width; use full-bleed headers and alternating section backgrounds.",
	LayoutSidebar:   "Place a fixed-width sidebar (about 250px) on the left for navigation and put the main content to its right.",
	LayoutGrid:      "Arrange content cards in a responsive grid of 3 columns with equal gaps; keep rows aligned.",
}

// PageSummary briefly describes an existing page.
type PageSummary struct {
	Name           string
	ComponentCount int
}

// PageOptions are the inputs of a page generation.
type PageOptions struct {
	Description   string
	Name          string         // Optional page name
	Layout        Layout         // Optional layout guideline
	Theme         map[string]any // Optional; applied as an override
	ExistingPages []PageSummary
}

// PagePromptBuilder builds page generation prompts. The zero value is ready
// to use.
type PagePromptBuilder struct{}

// SystemPrompt returns the fixed system instruction.
func (PagePromptBuilder) SystemPrompt() string {
	return pageSystemPrompt
}

// BuildPagePrompt renders the user prompt for opts.
func (PagePromptBuilder) BuildPagePrompt(opts PageOptions) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Create a complete page based on this description: %s\n", opts.Description)

	if opts.Name != "" {
		fmt.Fprintf(&builder, "Page name: %s\n", opts.Name)
	}

	if guideline, ok := layoutGuidelines[opts.Layout]; ok {
		fmt.Fprintf(&builder, "\nLayout (%s): %s\n", opts.Layout, guideline)
	}

	if len(opts.Theme) > 0 {
		fmt.Fprintf(&builder, "\nUse this theme: %s\n", utils.JSONToString(opts.Theme, false))
	}

	if len(opts.ExistingPages) > 0 {
		summaries := make([]string, 0, len(opts.ExistingPages))
		for _, page := range opts.ExistingPages {
			summaries = append(summaries, fmt.Sprintf("%s (%d components)", page.Name, page.ComponentCount))
		}
		fmt.Fprintf(&builder, "\nExisting pages, keep a consistent style: %s\n", strings.Join(summaries, ", "))
	}

	fmt.Fprintf(&builder, "\nAvailable component types: %s\n", strings.Join(componentTypes, ", "))
	builder.WriteString("\nReturn only the JSON object.")
	return builder.String()
}

// BuildMessages returns the system and user messages for opts.
func (b PagePromptBuilder) BuildMessages(opts PageOptions) []ai.Message {
	return []ai.Message{
		ai.SystemMessage(b.SystemPrompt()),
		ai.UserMessage(b.BuildPagePrompt(opts)),
	}
}
