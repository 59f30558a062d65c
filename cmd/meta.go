package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/meta"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Manage per-project metadata overrides",
	Long: `Project metadata feeds the priority scorer: impact (1-3) and
approved_by_human (boolean) adjust a project's score, agent_command and
command.<name> entries configure automation.`,
}

func init() {
	setCmd := &cobra.Command{
		Use:   "set <project-id> <key> <value>",
		Short: "Set a metadata value for a project",
		Long: `Sets one metadata key for a project. Recognized keys:

  impact             integer impact level (1-3)
  approved_by_human  boolean approval flag
  agent_command      raw agent command string
  command.<name>     custom command mapping`,
		Args: cobra.ExactArgs(3),
		RunE: runMetaSet,
	}
	setCmd.Flags().String("root", ".", "root directory")

	getCmd := &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show stored metadata for a project",
		Args:  cobra.ExactArgs(1),
		RunE:  runMetaGet,
	}
	getCmd.Flags().String("root", ".", "root directory")

	metaCmd.AddCommand(setCmd)
	metaCmd.AddCommand(getCmd)
	rootCmd.AddCommand(metaCmd)
}

func runMetaSet(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	projectID, key, value := args[0], args[1], args[2]

	store, err := meta.Load(root)
	if err != nil {
		return err
	}
	if err := store.Set(projectID, key, value); err != nil {
		return err
	}
	if err := store.Save(root); err != nil {
		return err
	}

	fmt.Printf("Set %s.%s = %s\n", projectID, key, value)
	return nil
}

func runMetaGet(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	projectID := args[0]

	store, err := meta.Load(root)
	if err != nil {
		return err
	}
	m, ok := store.Get(projectID)
	if !ok {
		fmt.Printf("No metadata stored for %s\n", projectID)
		return nil
	}

	if m.Impact != nil {
		fmt.Printf("impact: %d\n", *m.Impact)
	}
	fmt.Printf("approved_by_human: %t\n", m.ApprovedByHuman)
	if m.AgentCommand != "" {
		fmt.Printf("agent_command: %s\n", m.AgentCommand)
	}
	for name, cmdline := range m.CustomCommands {
		fmt.Printf("command.%s: %s\n", name, cmdline)
	}
	return nil
}
