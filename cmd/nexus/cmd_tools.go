package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nexus/internal/catalog"
	"nexus/internal/navigation"
)

var (
	toolCategory string
	toolOption   string
	toolStyle    string
	toolLang     string
)

// toolsCmd groups the catalog commands
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Browse and run the AI tool catalog",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools, optionally for one category",
	Args:  cobra.NoArgs,
	RunE:  runToolsList,
}

var toolsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tools by name or description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToolsSearch,
}

var toolsShowCmd = &cobra.Command{
	Use:   "show [tool-id]",
	Short: "Show a tool's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsShow,
}

var toolsPromptCmd = &cobra.Command{
	Use:   "prompt [tool-id] [input]",
	Short: "Print the prompt a tool would send",
	Long: `Renders the tool's prompt for the given input without contacting the
assistant.

Example:
  nexus tools prompt poet "the sea" --option Haiku
  nexus tools prompt translator "good morning" --lang French`,
	Args: cobra.MinimumNArgs(2),
	RunE: runToolsPrompt,
}

var toolsRunCmd = &cobra.Command{
	Use:   "run [tool-id] [input]",
	Short: "Run a tool and print the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runToolsRun,
}

func init() {
	toolsListCmd.Flags().StringVarP(&toolCategory, "category", "c", "", "Category id (default: all)")
	for _, c := range []*cobra.Command{toolsPromptCmd, toolsRunCmd} {
		c.Flags().StringVar(&toolOption, "option", "", "Tool option (style/type)")
		c.Flags().StringVar(&toolStyle, "style", "", "Citation style")
		c.Flags().StringVar(&toolLang, "lang", "", "Target language")
	}

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsSearchCmd)
	toolsCmd.AddCommand(toolsShowCmd)
	toolsCmd.AddCommand(toolsPromptCmd)
	toolsCmd.AddCommand(toolsRunCmd)
}

func promptOptions() catalog.PromptOptions {
	return catalog.PromptOptions{Option: toolOption, Style: toolStyle, Language: toolLang}
}

func printTools(out io.Writer, tools []catalog.Tool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range tools {
		name := t.Name
		if t.Premium {
			name += " [PRO]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, name, t.Description)
	}
	w.Flush()
}

func runToolsList(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if toolCategory != "" {
		c, ok := cat.Category(toolCategory)
		if !ok {
			return fmt.Errorf("unknown category: %s", toolCategory)
		}
		tools := cat.ByCategory(c.ID)
		if len(tools) == 0 {
			fmt.Fprintf(out, "No tools in %s\n", c.Name)
			return nil
		}
		printTools(out, tools)
		return nil
	}

	for _, c := range cat.Categories() {
		tools := cat.ByCategory(c.ID)
		fmt.Fprintf(out, "%s (%d)\n", c.Name, len(tools))
		printTools(out, tools)
		fmt.Fprintln(out)
	}
	return nil
}

func runToolsSearch(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	tools := cat.Search(query)
	out := cmd.OutOrStdout()
	if len(tools) == 0 {
		fmt.Fprintf(out, "No tools found for %q\n", query)
		return nil
	}
	printTools(out, tools)
	return nil
}

func runToolsShow(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	t, ok := cat.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", navigation.ErrUnknownTool, args[0])
	}
	out := cmd.OutOrStdout()
	c, _ := cat.Category(t.Category)

	fmt.Fprintf(out, "%s (%s)\n", t.Name, t.ID)
	fmt.Fprintf(out, "  %s\n", t.Description)
	fmt.Fprintf(out, "  Category: %s\n", c.Name)
	fmt.Fprintf(out, "  Input:    %s\n", t.InputLabel)
	if t.HasOptions {
		fmt.Fprintf(out, "  Options:  %s\n", strings.Join(t.Options, ", "))
	}
	if t.HasStyle {
		fmt.Fprintf(out, "  Styles:   %s (default %s)\n", strings.Join(catalog.CitationStyles, ", "), catalog.DefaultStyle)
	}
	if t.HasLang {
		fmt.Fprintf(out, "  Languages: %s (default %s)\n", strings.Join(catalog.Languages, ", "), catalog.DefaultLanguage)
	}
	if t.Premium {
		fmt.Fprintln(out, "  Premium")
	}
	return nil
}

func runToolsPrompt(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	t, ok := cat.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", navigation.ErrUnknownTool, args[0])
	}
	prompt, err := cat.BuildPrompt(t, strings.Join(args[1:], " "), promptOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), prompt)
	return nil
}

func runToolsRun(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signalContext(true)
	defer stop()

	reply, err := ctrl.RunTool(ctx, args[0], strings.Join(args[1:], " "), promptOptions())
	if err != nil {
		return noticeError(ctrl, err)
	}
	msg, err := reply.Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg.Content)
	return nil
}
