package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/pullwatch/pullwatch/models"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage pullwatch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (token redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Auth.Token != "" {
			cfg.Auth.Token = "ghp-***"
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("serialising config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup: token, repositories, refresh interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()

		var (
			token    string
			repos    string
			interval = fmt.Sprintf("%d", config.DefaultIntervalMs)
			drafts   = true
		)

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("GitHub token").
					Description("Leave empty to use $"+config.DefaultTokenEnvVar).
					EchoMode(huh.EchoModePassword).
					Value(&token),
				huh.NewInput().
					Title("Repositories").
					Description("Comma-separated owner/repo entries, e.g. acme/widgets, acme/gadgets").
					Value(&repos),
				huh.NewSelect[string]().
					Title("Refresh interval").
					Options(
						huh.NewOption("1 minute", "60000"),
						huh.NewOption("5 minutes (default)", "300000"),
						huh.NewOption("15 minutes", "900000"),
						huh.NewOption("30 minutes", "1800000"),
					).
					Value(&interval),
				huh.NewConfirm().
					Title("Include draft pull requests?").
					Value(&drafts),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		cfg.Auth.Token = strings.TrimSpace(token)
		cfg.Query.IncludeDrafts = drafts
		fmt.Sscanf(interval, "%d", &cfg.Refresh.UpdateIntervalMs)

		for _, entry := range strings.Split(repos, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			owner, repo, ok := strings.Cut(entry, "/")
			if !ok {
				return fmt.Errorf("invalid repository %q: expected owner/repo", entry)
			}
			cfg.Targets = append(cfg.Targets, models.Target{Owner: owner, Repo: repo})
		}

		path, err := config.ConfigPath(cfgFile)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("serialising config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
