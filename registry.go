package reagent

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reagentkit/reagent/schema"
)

// Registry resolves tools by name and renders the tool catalog for prompt
// injection. Registration happens once at agent construction and is
// immutable afterwards; the registry is used single-threaded, so it takes
// no locks.
type Registry struct {
	tools   map[string]Tool
	schemas map[string]*schema.Schema
	order   []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*schema.Schema),
	}
}

// Register adds a tool. A duplicate name is a fatal configuration error
// ([*DuplicateToolError]); the first registration is unaffected. The tool's
// argument schema, when present, is compiled here so that an invalid schema
// also surfaces at construction time.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}

	compiled, err := schema.Compile(tool.ParameterSchema())
	if err != nil {
		return fmt.Errorf("reagent: tool %q has invalid schema: %w", name, err)
	}

	r.tools[name] = tool
	r.schemas[name] = compiled
	r.order = append(r.order, name)
	return nil
}

// RegisterAll registers tools in order, stopping at the first error.
func (r *Registry) RegisterAll(tools ...Tool) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Get resolves a tool by name, returning [*UnknownToolError] when absent.
func (r *Registry) Get(name string) (Tool, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return tool, nil
}

// ValidateArguments checks args against the tool's compiled schema. Tools
// without a schema accept anything. Unknown names are reported the same way
// as Get.
func (r *Registry) ValidateArguments(name string, args map[string]any) error {
	if _, ok := r.tools[name]; !ok {
		return &UnknownToolError{Name: name}
	}
	return r.schemas[name].Validate(args)
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Describe renders a deterministic, registration-ordered catalog of the
// registered tools for prompt injection. Argument schemas are rendered as
// indented YAML, which models read more reliably than raw JSON.
func (r *Registry) Describe() string {
	entries := make([]string, 0, len(r.order))

	for _, name := range r.order {
		tool := r.tools[name]

		var sb strings.Builder
		fmt.Fprintf(&sb, "- %s: %s", name, tool.Description())

		if raw := tool.ParameterSchema(); raw != nil {
			if rendered, err := yaml.Marshal(raw); err == nil {
				sb.WriteString("\n  parameters:")
				for _, line := range strings.Split(strings.TrimRight(string(rendered), "\n"), "\n") {
					sb.WriteString("\n    ")
					sb.WriteString(line)
				}
			}
		}
		entries = append(entries, sb.String())
	}

	return strings.Join(entries, "\n")
}
