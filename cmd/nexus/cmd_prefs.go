package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nexus/internal/ux"
)

// prefsCmd groups the preference commands
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show and change workspace preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set [theme|context|api-key] [value]",
	Short: "Change one preference",
	Long: `Changes and persists one preference.

Examples:
  nexus prefs set theme cyberpunk
  nexus prefs set context coding
  nexus prefs set api-key AIza...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPrefsSet,
}

var prefsToggleSidebarCmd = &cobra.Command{
	Use:   "toggle-sidebar",
	Short: "Collapse or expand the sidebar",
	Args:  cobra.NoArgs,
	RunE:  runPrefsToggleSidebar,
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsToggleSidebarCmd)
}

func maskAPIKey(k string) string {
	if k == "" {
		return "(not set)"
	}
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", 8)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p := ctrl.Preferences()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "theme:    %s\n", p.Theme)
	fmt.Fprintf(out, "context:  %s (%s)\n", p.Context, p.Context.Info().Label)
	fmt.Fprintf(out, "sidebar:  %s\n", map[bool]string{false: "expanded", true: "collapsed"}[p.SidebarCollapsed])
	fmt.Fprintf(out, "api-key:  %s\n", maskAPIKey(p.APIKey))
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	value := ""
	if len(args) > 1 {
		value = args[1]
	}

	switch args[0] {
	case "theme":
		err = ctrl.ChangeTheme(ux.Theme(value))
	case "context":
		err = ctrl.ChangeContext(ux.Context(value))
	case "api-key":
		err = ctrl.SetCredential(value)
	default:
		return fmt.Errorf("unknown preference %q (valid: theme, context, api-key)", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", args[0])
	return nil
}

func runPrefsToggleSidebar(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	collapsed, err := ctrl.ToggleSidebar()
	if err != nil {
		return err
	}
	state := "expanded"
	if collapsed {
		state = "collapsed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sidebar %s\n", state)
	return nil
}
