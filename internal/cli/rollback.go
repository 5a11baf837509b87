package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops/backupset"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// NewRollbackCmd creates the rollback command.
func NewRollbackCmd() *cobra.Command {
	var backupDir string

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Restore the installation from a backup set",
		Long: `Restore every file captured by a previous upgrade attempt. Without
--backup-dir the newest backup set in the work area is restored. A consumed
backup is removed after a successful restore.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRollback(backupDir)
		},
	}

	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Backup set to restore (defaults to the newest)")

	return cmd
}

func runRollback(backupDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	state, err := loadDeployment(cfg)
	if err != nil {
		return err
	}

	if backupDir == "" {
		work, err := loadWorkDir(cfg)
		if err != nil {
			return err
		}
		backupDir, err = work.LatestBackup()
		if err != nil {
			return fmt.Errorf("failed to locate a backup set: %w", err)
		}
	}

	set, err := backupset.Load(filepath.Join(backupDir, backupset.FileName))
	if err != nil {
		return fmt.Errorf("failed to read backup set in %s: %w", backupDir, err)
	}

	executor, err := fileops.NewExecutorFromBackup(state.InstallDir(), backupDir)
	if err != nil {
		return err
	}

	logger.Info("Restoring backup", logger.Fields{
		"dir":  backupDir,
		"from": set.FromVersion,
		"to":   set.ToVersion,
	})
	if err := executor.Rollback(); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	// The set records the version the files came from; put the marker back
	// in step with them.
	if set.FromVersion != "" {
		restored, err := version.Parse(set.FromVersion)
		if err == nil {
			err = state.RecordVersion(restored)
		}
		if err != nil {
			logger.Warnf("files restored but recording version %s failed: %v", set.FromVersion, err)
		}
	}

	if err := executor.Close(); err != nil {
		logger.Warnf("failed to discard the consumed backup: %v", err)
	}

	logger.Success("Rollback complete", logger.Fields{"version": set.FromVersion})
	return nil
}
