package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/orchestrator"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var forceFull bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check for an available upgrade",
		Long:  "Fetch the release catalog and report which upgrade, if any, applies to this installation. Nothing is downloaded or modified.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), forceFull)
		},
	}

	cmd.Flags().BoolVar(&forceFull, "force-full", false, "Evaluate as if a full upgrade was requested")

	return cmd
}

func runCheck(ctx context.Context, forceFull bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	upgrader, err := loadUpgrader(cfg, forceFull, orchestrator.Hooks{})
	if err != nil {
		return err
	}

	decision, err := upgrader.Check(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for upgrades: %w", err)
	}

	printDecision(decision)
	return nil
}

func printDecision(decision orchestrator.Decision) {
	if decision.Installed {
		fmt.Printf("Installed: %s\n", decision.Current)
	} else {
		fmt.Println("Installed: none")
	}
	fmt.Printf("Latest:    %s (released %s)\n", decision.Manifest.Version, decision.Manifest.ReleasedAt.Format("2006-01-02"))
	fmt.Printf("Action:    %s (%s)\n", decision.Kind, decision.Reason)
	if decision.Manifest.Notes != "" {
		fmt.Printf("Notes:     %s\n", decision.Manifest.Notes)
	}
}
