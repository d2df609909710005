package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// paletteCmd lists command palette matches
var paletteCmd = &cobra.Command{
	Use:   "palette [query]",
	Short: "Search the command palette",
	RunE:  runPalette,
}

var paletteRunCmd = &cobra.Command{
	Use:   "run [command-id] [arg]",
	Short: "Execute a palette command",
	Long: `Executes a palette command against the workspace. new-project takes the
project name as its argument.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPaletteRun,
}

func init() {
	paletteCmd.AddCommand(paletteRunCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	pal := ctrl.Palette()
	pal.Filter(strings.Join(args, " "))
	groups := pal.Groups()
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintln(out, g.Name)
		for _, c := range g.Commands {
			fmt.Fprintf(out, "  %-16s %s\n", c.ID, c.Label)
		}
	}
	return nil
}

func runPaletteRun(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.ExecuteCommand(args[0], strings.Join(args[1:], " ")); err != nil {
		return noticeError(ctrl, err)
	}
	out := cmd.OutOrStdout()
	if n, ok := ctrl.LastNotice(); ok {
		fmt.Fprintln(out, n.Text)
	}
	fmt.Fprintf(out, "View: %s\n", ctrl.State().View)
	return nil
}
