package prompt

import (
	"fmt"
	"strings"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

const componentSystemPrompt = `You are an expert UI designer that turns descriptions into component definitions for a visual page editor.
Respond with a single JSON object describing one component with these fields:
- "type": the component type
- "name": a short human-readable name
- "properties": an object with the visual and behavioural properties of the component
- "children": an array of nested components, each with the same shape (omit when empty)
Use realistic content, accessible labels and consistent styling. Do not include explanations.`

// GenerationContext describes what already exists on the page, so the model
// can stay consistent with it.
type GenerationContext struct {
	ExistingComponents []schema.Component
	Theme              map[string]any
	DataSources        []any
}

// ComponentOptions are the inputs of a component generation.
type ComponentOptions struct {
	Description string
	Type        string           // Optional; inferred from Description when empty
	Position    *schema.Position // Optional placement, applied as an override
	ParentID    string           // Optional parent component id
	Context     *GenerationContext
}

// ResolvedType returns the declared type, or the type inferred from the
// description.
func (opts ComponentOptions) ResolvedType() string {
	if opts.Type != "" {
		return opts.Type
	}
	return InferComponentType(opts.Description)
}

// ComponentPromptBuilder builds component generation prompts. The zero value
// is ready to use.
type ComponentPromptBuilder struct{}

// SystemPrompt returns the fixed system instruction.
func (ComponentPromptBuilder) SystemPrompt() string {
	return componentSystemPrompt
}

// BuildComponentPrompt renders the user prompt for opts.
func (ComponentPromptBuilder) BuildComponentPrompt(opts ComponentOptions) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Create a UI component based on this description: %s\n", opts.Description)

	componentType := opts.ResolvedType()
	if componentType != "" {
		fmt.Fprintf(&builder, "\nComponent type: %s\n", componentType)
	}

	if opts.Position != nil {
		fmt.Fprintf(&builder, "Position: x=%s, y=%s\n", formatNumber(opts.Position.X), formatNumber(opts.Position.Y))
	}

	if opts.ParentID != "" {
		fmt.Fprintf(&builder, "Parent component id: %s\n", opts.ParentID)
	}

	if opts.Context != nil {
		writeContext(&builder, opts.Context)
	}

	if IsValidComponentType(componentType) {
		if hints := PropertyHints(componentType); hints != "" {
			fmt.Fprintf(&builder, "\nSuggested properties for %s: %s\n", componentType, hints)
		}
	}

	builder.WriteString("\nReturn only the JSON object.")
	return builder.String()
}

// BuildMessages returns the system and user messages for opts.
func (b ComponentPromptBuilder) BuildMessages(opts ComponentOptions) []ai.Message {
	return []ai.Message{
		ai.SystemMessage(b.SystemPrompt()),
		ai.UserMessage(b.BuildComponentPrompt(opts)),
	}
}

func writeContext(builder *strings.Builder, context *GenerationContext) {
	builder.WriteString("\nContext:\n")

	if len(context.ExistingComponents) > 0 {
		summaries := make([]string, 0, len(context.ExistingComponents))
		for _, component := range context.ExistingComponents {
			summaries = append(summaries, fmt.Sprintf("%s (%s)", component.Name, component.Type))
		}
		fmt.Fprintf(builder, "- Existing components: %s\n", strings.Join(summaries, ", "))
	} else {
		builder.WriteString("- Existing components: none\n")
	}

	if len(context.Theme) > 0 {
		builder.WriteString("- A theme is defined; use its colors and fonts\n")
	}

	fmt.Fprintf(builder, "- Available data sources: %d\n", len(context.DataSources))
}

// formatNumber prints integral values without a fractional part.
func formatNumber(value float64) string {
	return fmt.Sprintf("%g", value)
}
