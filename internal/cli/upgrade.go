package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/orchestrator"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/strategy"
)

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var (
		dryRun    bool
		forceFull bool
		noBackup  bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the deployed service",
		Long: `Check the release catalog and apply the upgrade it calls for. Incremental
patches are downloaded, verified and applied with a rollback backup; full
packages are downloaded, verified and unpacked over the installation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpgrade(cmd.Context(), dryRun, forceFull, noBackup)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the planned action without executing it")
	cmd.Flags().BoolVar(&forceFull, "force-full", false, "Install the full package even when a patch would do")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the pre-apply backup (disables rollback)")

	return cmd
}

func runUpgrade(ctx context.Context, dryRun, forceFull, noBackup bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	upgrader, err := loadUpgrader(cfg, forceFull, printHooks())
	if err != nil {
		return err
	}
	if noBackup {
		upgrader.Backup = false
	}

	decision, err := upgrader.Run(ctx, orchestrator.RunOptions{DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("upgrade failed: %w", err)
	}

	if dryRun || decision.Kind == strategy.NoUpgrade {
		return nil
	}

	logger.Success("Upgrade complete", logger.Fields{"version": decision.Target.String()})
	return nil
}
