package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nexus/internal/navigation"
)

// projectsCmd groups the project commands
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and create projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProjectsCreate,
}

var projectsAddDocCmd = &cobra.Command{
	Use:   "add-doc [project-id]",
	Short: "Add a new document to a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsAddDoc,
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsAddDocCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	projects := ctrl.Projects()
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects yet")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOCUMENTS\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Name, len(p.Documents), p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p, err := ctrl.CreateProject(strings.Join(args, " "))
	if err != nil {
		return noticeError(ctrl, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", p.Name, p.ID)
	return nil
}

func runProjectsAddDoc(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	state, err := ctrl.Navigate(navigation.ViewProject, navigation.Params{ProjectID: args[0]})
	if err != nil {
		return err
	}
	if state.View != navigation.ViewProject {
		return fmt.Errorf("project not found: %s", args[0])
	}
	p, ref, err := ctrl.CreateDocument()
	if err != nil {
		return noticeError(ctrl, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %q (%d documents)\n", ref, p.Name, len(p.Documents))
	return nil
}
