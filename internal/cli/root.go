package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/treenav-dev/treenav/internal/config"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treenav",
		Short: "Navigate remote code hierarchies from the terminal",
		Long: `Treenav spawns a code analysis server and walks the hierarchies it
computes - type inheritance, call graphs, member layouts and data-flow
chains - fetching nodes lazily as you drill down.

Cursor arguments are file:line[:col], 1-based.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.ProjectConfigFile, "Path to the project config file")
	rootCmd.PersistentFlags().String("server", "", "Analysis server command (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging on stderr")

	inheritCmd := &cobra.Command{
		Use:   "inherit <file:line[:col]>",
		Short: "Show the inheritance hierarchy of the type under the cursor",
		Args:  cobra.ExactArgs(1),
		RunE:  RunInherit,
	}
	addTreeFlags(inheritCmd)
	inheritCmd.Flags().Bool("qualified", false, "Show fully qualified names")

	callsCmd := &cobra.Command{
		Use:   "calls <file:line[:col]>",
		Short: "Show callers or callees of the function under the cursor",
		Args:  cobra.ExactArgs(1),
		RunE:  RunCalls,
	}
	addTreeFlags(callsCmd)
	callsCmd.Flags().Bool("qualified", false, "Show fully qualified names")
	callsCmd.Flags().Bool("callees", false, "Walk callees instead of callers")

	membersCmd := &cobra.Command{
		Use:   "members <file:line[:col]>",
		Short: "Show the member layout of the type under the cursor",
		Args:  cobra.ExactArgs(1),
		RunE:  RunMembers,
	}
	addTreeFlags(membersCmd)
	membersCmd.Flags().Bool("qualified", false, "Show fully qualified names")

	dataflowCmd := &cobra.Command{
		Use:   "dataflow <file:line[:col]>",
		Short: "Trace where the value under the cursor flows into",
		Args:  cobra.ExactArgs(1),
		RunE:  RunDataFlow,
	}
	addTreeFlags(dataflowCmd)

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate config and analysis server availability",
		RunE:  RunDoctor,
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("treenav %s\n", version)
		},
	}

	rootCmd.AddCommand(
		inheritCmd,
		callsCmd,
		membersCmd,
		dataflowCmd,
		doctorCmd,
		versionCmd,
	)

	return rootCmd
}

func addTreeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print the tree as JSON")
	cmd.Flags().IntP("depth", "d", 3, "Levels to expand below the root (>=0)")
	cmd.Flags().BoolP("interactive", "i", false, "Keep the session open and browse interactively")
}
