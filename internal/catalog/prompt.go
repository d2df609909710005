package catalog

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	DefaultStyle    = "ABNT"
	DefaultLanguage = "English"
)

// CitationStyles and Languages are the choices offered for tools with
// HasStyle and HasLang.
var (
	CitationStyles = []string{"ABNT", "APA", "MLA", "Chicago"}
	Languages      = []string{"English", "Spanish", "French", "German", "Italian", "Portuguese"}
)

// defaultPrompt applies to every tool without its own template. Optional
// lines appear only when the tool declares the matching flag.
const defaultPrompt = `As {{.Name}}, {{.Description}}.

User input: {{.Input}}
{{- if .HasStyle}}

Format using the {{.Style}} standard.
{{- end}}
{{- if .HasLang}}

Translate to: {{.Language}}.
{{- end}}
{{- if and .HasOptions .Option}}

Style/type: {{.Option}}.
{{- end}}`

var defaultTemplate = template.Must(template.New("default").Option("missingkey=error").Parse(defaultPrompt))

// PromptOptions are the user's selections in the tool form.
type PromptOptions struct {
	Style    string
	Language string
	Option   string
}

type promptData struct {
	Tool
	Input    string
	Style    string
	Language string
	Option   string
}

func parseTemplate(t Tool) (*template.Template, error) {
	if strings.TrimSpace(t.Prompt) == "" {
		return defaultTemplate, nil
	}
	return template.New(t.ID).Option("missingkey=error").Parse(t.Prompt)
}

// BuildPrompt renders the prompt for tool from the user's input and
// selections. Blank style and language fall back to the defaults.
func (c *Catalog) BuildPrompt(tool Tool, input string, opts PromptOptions) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}
	if opts.Option != "" && !tool.HasOption(opts.Option) {
		return "", fmt.Errorf("%w: %q for %s", ErrInvalidOption, opts.Option, tool.ID)
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	tmpl, ok := c.templates[tool.ID]
	if !ok {
		var err error
		if tmpl, err = parseTemplate(tool); err != nil {
			return "", fmt.Errorf("invalid prompt template for %s: %w", tool.ID, err)
		}
	}

	var b strings.Builder
	err := tmpl.Execute(&b, promptData{
		Tool:     tool,
		Input:    input,
		Style:    opts.Style,
		Language: opts.Language,
		Option:   opts.Option,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt for %s: %w", tool.ID, err)
	}
	return b.String(), nil
}
