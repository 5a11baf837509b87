package cli

import (
	"github.com/spf13/cobra"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/workdir"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	var (
		all       bool
		downloads bool
		extracted bool
		backups   bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the work area",
		Long: `Remove files from the upgrade work area to free disk space. Without flags
the downloaded packages and extracted trees are removed; backup sets are the
rollback safety net and are kept unless --backups or --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runClean(workdir.CleanOptions{
				All:       all,
				Downloads: downloads,
				Extracted: extracted,
				Backups:   backups,
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clean everything, including backup sets")
	cmd.Flags().BoolVar(&downloads, "downloads", false, "Clean downloaded packages")
	cmd.Flags().BoolVar(&extracted, "extracted", false, "Clean extracted trees")
	cmd.Flags().BoolVar(&backups, "backups", false, "Clean backup sets")

	return cmd
}

func runClean(options workdir.CleanOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	work, err := loadWorkDir(cfg)
	if err != nil {
		return err
	}

	result, err := work.Clean(options)
	if err != nil {
		return err
	}

	if result.DownloadsFreed > 0 {
		logger.Info("Cleaned downloaded packages", logger.Fields{"freed": workdir.FormatBytes(result.DownloadsFreed)})
	}
	if result.ExtractedFreed > 0 {
		logger.Info("Cleaned extracted trees", logger.Fields{"freed": workdir.FormatBytes(result.ExtractedFreed)})
	}
	if result.BackupsFreed > 0 {
		logger.Info("Cleaned backup sets", logger.Fields{"freed": workdir.FormatBytes(result.BackupsFreed)})
	}

	logger.Success("Work area cleaned", logger.Fields{"total_freed": workdir.FormatBytes(result.TotalFreed)})
	return nil
}
