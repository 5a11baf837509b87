package cli

import (
	"fmt"
	"net/url"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/archive"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/auth"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/config"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/deployment"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/download"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/integrity"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/manifest"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/orchestrator"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/patch"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/workdir"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	LogLevel   *string
)

// loadConfig loads the client configuration and initializes logging. A
// missing config file yields the defaults, so every command works before
// 'config init' has run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if LogLevel != nil && *LogLevel != "" {
		cfg.Settings.LogLevel = *LogLevel
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}

// loadWorkDir resolves and prepares the work area holding downloads,
// extracted trees and backup sets.
func loadWorkDir(cfg *config.Config) (*workdir.Manager, error) {
	var (
		work *workdir.Manager
		err  error
	)
	if cfg.Settings.WorkDir != "" {
		work, err = workdir.NewManager(cfg.Settings.WorkDir)
	} else {
		work, err = workdir.NewDefaultManager()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}
	if err := work.Ensure(); err != nil {
		return nil, err
	}
	return work, nil
}

// loadDeployment builds the deployment state for the configured installation.
func loadDeployment(cfg *config.Config) (*deployment.State, error) {
	if cfg.Install.Dir == "" {
		return nil, fmt.Errorf("install.dir is not set (run 'nuwax config set install.dir <path>'): %w", errors.ErrConfigValidation)
	}
	return deployment.NewState(cfg.Install.Dir, cfg.Install.Descriptor)
}

// loadManifestSource builds the release catalog source. file:// URLs read the
// manifest from disk for air-gapped setups, everything else goes over HTTP.
func loadManifestSource(cfg *config.Config) (manifest.Source, error) {
	if cfg.Server.ManifestURL == "" {
		return nil, fmt.Errorf("server.manifest_url is not set (run 'nuwax config set server.manifest_url <url>'): %w", errors.ErrConfigValidation)
	}
	if parsed, err := url.Parse(cfg.Server.ManifestURL); err == nil && parsed.Scheme == "file" {
		return manifest.FileSource{Path: parsed.Path}, nil
	}
	return manifest.NewHTTPSource(cfg.Server.ManifestURL, cfg.Server.AuthToken, cfg.Settings.HTTPTimeout)
}

// loadProcessor assembles the download/verify/extract pipeline below the
// work area.
func loadProcessor(cfg *config.Config, work *workdir.Manager) (*patch.Processor, error) {
	if cfg.Settings.SigningKeyPath == "" {
		return nil, fmt.Errorf("settings.signing_key is not set (package verification needs the publisher key): %w", errors.ErrConfigValidation)
	}
	verifier, err := integrity.NewRSAVerifierFromFile(cfg.Settings.SigningKeyPath)
	if err != nil {
		return nil, err
	}
	var authenticator auth.Authenticator
	if cfg.Server.AuthToken != "" {
		authenticator = auth.BearerAuth{Token: cfg.Server.AuthToken}
	}
	dl := download.NewManagerWithAuth(cfg.Settings.DownloadTimeout, "", authenticator)
	return patch.NewProcessor(dl, verifier, archive.NewManager(), work.Downloads(), work.Extracted())
}

// loadUpgrader wires the orchestrator for check and upgrade runs.
func loadUpgrader(cfg *config.Config, forceFull bool, hooks orchestrator.Hooks) (*orchestrator.Upgrader, error) {
	source, err := loadManifestSource(cfg)
	if err != nil {
		return nil, err
	}
	state, err := loadDeployment(cfg)
	if err != nil {
		return nil, err
	}
	work, err := loadWorkDir(cfg)
	if err != nil {
		return nil, err
	}
	processor, err := loadProcessor(cfg, work)
	if err != nil {
		return nil, err
	}

	upgrader := &orchestrator.Upgrader{
		Manifest:   source,
		Deployment: state,
		Fetcher:    processor,
		Patcher:    patch.Applier{Processor: processor},
		Deployer:   &deployment.FullInstaller{State: state, Extractor: archive.NewManager()},
		Work:       work,
		CLIVersion: Version,
		ForceFull:  forceFull || cfg.Settings.ForceFull,
		Backup:     cfg.BackupEnabled(),
		Hooks:      hooks,
	}
	if cfg.Settings.Arch != "" {
		arch, err := platform.Normalize(cfg.Settings.Arch)
		if err != nil {
			return nil, err
		}
		upgrader.Arch = arch
	}
	return upgrader, nil
}

// printHooks renders orchestrator events as plain progress lines.
func printHooks() orchestrator.Hooks {
	return orchestrator.Hooks{OnEvent: func(event orchestrator.Event) {
		switch {
		case event.Msg != "" && event.ID != "":
			fmt.Printf("%s: %s (%s)\n", event.Phase, event.Msg, event.ID)
		case event.Msg != "":
			fmt.Printf("%s: %s\n", event.Phase, event.Msg)
		case event.ID != "":
			fmt.Printf("%s: %s\n", event.Phase, event.ID)
		default:
			fmt.Println(event.Phase)
		}
	}}
}
