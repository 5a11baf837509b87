package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/workdir"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show installation and work area status",
		Long:  "Display the deployment state, the recorded version and the work area footprint.",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)

	_, _ = fmt.Fprintf(tabWriter, "Config file:\t%s\n", getConfigPath())

	if cfg.Install.Dir == "" {
		_, _ = fmt.Fprintln(tabWriter, "Install dir:\t(not configured)")
	} else {
		_, _ = fmt.Fprintf(tabWriter, "Install dir:\t%s\n", cfg.Install.Dir)
		state, err := loadDeployment(cfg)
		if err != nil {
			return err
		}
		if state.Exists() {
			if current, err := state.CurrentVersion(); err != nil {
				_, _ = fmt.Fprintln(tabWriter, "Version:\tunknown")
			} else {
				_, _ = fmt.Fprintf(tabWriter, "Version:\t%s\n", current)
			}
		} else {
			_, _ = fmt.Fprintln(tabWriter, "Deployment:\tnot found")
		}
	}

	arch := cfg.Settings.Arch
	if arch == "" {
		if detected, err := platform.Detect(); err == nil {
			arch = fmt.Sprintf("%s (detected)", detected)
		} else {
			arch = "unknown"
		}
	}
	_, _ = fmt.Fprintf(tabWriter, "Architecture:\t%s\n", arch)

	work, err := loadWorkDir(cfg)
	if err != nil {
		return err
	}
	info, err := work.Info()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(tabWriter, "Work area:\t%s\n", info.Root)
	_, _ = fmt.Fprintf(tabWriter, "  downloads:\t%s (%d files)\n", workdir.FormatBytes(info.Downloads.Size), info.Downloads.Files)
	_, _ = fmt.Fprintf(tabWriter, "  extracted:\t%s (%d files)\n", workdir.FormatBytes(info.Extracted.Size), info.Extracted.Files)
	_, _ = fmt.Fprintf(tabWriter, "  backups:\t%s (%d files)\n", workdir.FormatBytes(info.Backups.Size), info.Backups.Files)

	if latest, err := work.LatestBackup(); err == nil {
		_, _ = fmt.Fprintf(tabWriter, "Latest backup:\t%s\n", latest)
	}

	return tabWriter.Flush()
}
