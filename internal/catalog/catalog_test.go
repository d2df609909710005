package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, c.Len())
	require.Len(t, c.Categories(), 10)
	assert.Equal(t, "text", c.Categories()[0].ID)

	analysis, ok := c.Category("analysis")
	require.True(t, ok)
	assert.Equal(t, "Analysis & Data", analysis.Name)
	assert.Empty(t, c.ByCategory("analysis"))

	for _, tool := range c.All() {
		if tool.HasOptions {
			assert.NotEmpty(t, tool.Options, tool.ID)
		}
	}
}

func TestParseRejectsInvalidData(t *testing.T) {
	cases := map[string]string{
		"unknown category": `
categories: [{id: text, name: Text}]
tools: [{id: a, name: A, category: nope}]`,
		"duplicate id": `
categories: [{id: text, name: Text}]
tools: [{id: a, name: A, category: text}, {id: a, name: B, category: text}]`,
		"options missing": `
categories: [{id: text, name: Text}]
tools: [{id: a, name: A, category: text, has_options: true}]`,
		"blank id": `
categories: [{id: text, name: Text}]
tools: [{id: "  ", name: A, category: text}]`,
		"bad template": `
categories: [{id: text, name: Text}]
tools: [{id: a, name: A, category: text, prompt: "{{.Input"}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, errInvalidData)
		})
	}
}

func TestLookup(t *testing.T) {
	c := MustLoad()

	tool, ok := c.Lookup("translator")
	require.True(t, ok)
	assert.True(t, tool.HasLang)
	assert.Equal(t, "text", tool.Category)

	_, ok = c.Lookup("does_not_exist")
	assert.False(t, ok)
}

func TestByCategoryPreservesOrder(t *testing.T) {
	c := MustLoad()

	code := c.ByCategory("code")
	require.NotEmpty(t, code)
	assert.Equal(t, "code_explainer", code[0].ID)
	for _, tool := range code {
		assert.Equal(t, "code", tool.Category)
	}

	assert.Empty(t, c.ByCategory("unknown"))
}

func TestSearchMatchesNameOrDescription(t *testing.T) {
	c := MustLoad()

	for _, q := range []string{"code", "IMAGE", "seo", "  Poem", "generator ", "xyz-nothing"} {
		needle := strings.ToLower(q)
		var want []string
		for _, tool := range c.All() {
			if strings.Contains(strings.ToLower(tool.Name), needle) ||
				strings.Contains(strings.ToLower(tool.Description), needle) {
				want = append(want, tool.ID)
			}
		}
		var got []string
		for _, tool := range c.Search(q) {
			got = append(got, tool.ID)
		}
		assert.Equal(t, want, got, "query %q", q)
	}

	assert.Empty(t, c.Search("xyz-nothing"))
	assert.NotEmpty(t, c.Search("summar"))
}

func TestSearchKeepsSurroundingSpaces(t *testing.T) {
	c := MustLoad()

	// Names end in "Generator", so a trailing space cannot match them.
	for _, tool := range c.Search("generator ") {
		hit := strings.Contains(strings.ToLower(tool.Name), "generator ") ||
			strings.Contains(strings.ToLower(tool.Description), "generator ")
		assert.True(t, hit, "unexpected match %s", tool.ID)
	}
	assert.Less(t, len(c.Search("generator ")), len(c.Search("generator")))
}

func TestSearchBlankReturnsAll(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, c.All(), c.Search(""))
	assert.Equal(t, c.All(), c.Search("   "))
}

func TestSearchResultsAreCopies(t *testing.T) {
	c := MustLoad()

	first := c.Search("code")
	require.NotEmpty(t, first)
	first[0].Name = "mutated"

	second := c.Search("code")
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestReturnedToolsDoNotShareOptions(t *testing.T) {
	c := MustLoad()

	got, ok := c.Lookup("poet")
	require.True(t, ok)
	require.NotEmpty(t, got.Options)
	want := append([]string(nil), got.Options...)
	got.Options[0] = "mutated"

	for _, tool := range [][]Tool{c.All(), c.ByCategory("text"), c.Search("poem"), c.Search("poem")} {
		for i := range tool {
			if tool[i].ID == "poet" {
				tool[i].Options[0] = "mutated"
			}
		}
	}

	again, _ := c.Lookup("poet")
	assert.Equal(t, want, again.Options)
	assert.True(t, again.HasOption(want[0]))
	assert.False(t, again.HasOption("mutated"))

	_, err := c.BuildPrompt(again, "the sea", PromptOptions{Option: "mutated"})
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestBrowse(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, c.ByCategory("web"), c.Browse("web", ""))
	assert.Equal(t, c.ByCategory("web"), c.Browse("web", "  "))
	assert.Equal(t, c.Search("email"), c.Browse("web", "email"))
}

func TestBuildPromptDefaultTemplate(t *testing.T) {
	c := MustLoad()
	tool, _ := c.Lookup("summarizer")

	got, err := c.BuildPrompt(tool, "  long text  ", PromptOptions{})
	require.NoError(t, err)
	assert.Equal(t, "As Text Summarizer, Creates concise summaries of long texts.\n\nUser input: long text", got)
}

func TestBuildPromptFlags(t *testing.T) {
	c := MustLoad()

	citation, _ := c.Lookup("citation_formatter")
	got, err := c.BuildPrompt(citation, "Knuth, TAOCP, 1968", PromptOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "\n\nFormat using the ABNT standard."))
	assert.NotContains(t, got, "Translate to")

	translator, _ := c.Lookup("translator")
	got, err = c.BuildPrompt(translator, "bom dia", PromptOptions{Language: "French"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "\n\nTranslate to: French."))
	assert.NotContains(t, got, "Format using")

	poet, _ := c.Lookup("poet")
	got, err = c.BuildPrompt(poet, "the sea", PromptOptions{Option: "Haiku"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "\n\nStyle/type: Haiku."))

	got, err = c.BuildPrompt(poet, "the sea", PromptOptions{})
	require.NoError(t, err)
	assert.NotContains(t, got, "Style/type")
}

func TestBuildPromptToolTemplate(t *testing.T) {
	c := MustLoad()

	site, _ := c.Lookup("site_builder")
	got, err := c.BuildPrompt(site, "bakery with online orders", PromptOptions{Option: "Landing Page"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Create a complete Landing Page site structure"))
	assert.Contains(t, got, "Requirements: bakery with online orders")
	assert.NotContains(t, got, "User input:")

	research, _ := c.Lookup("book_researcher")
	got, err = c.BuildPrompt(research, "AI in education", PromptOptions{})
	require.NoError(t, err)
	assert.Contains(t, got, "about: AI in education")
}

func TestBuildPromptErrors(t *testing.T) {
	c := MustLoad()
	poet, _ := c.Lookup("poet")

	_, err := c.BuildPrompt(poet, "   ", PromptOptions{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = c.BuildPrompt(poet, "the sea", PromptOptions{Option: "Limerick"})
	assert.ErrorIs(t, err, ErrInvalidOption)
}
