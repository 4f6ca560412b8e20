package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pullwatch/pullwatch/internal/aggregate"
	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/spf13/cobra"
)

var fetchJSON bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the pull-request list once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if len(cfg.Targets) == 0 {
			return fmt.Errorf("no targets configured, run `pullwatch config init` first")
		}

		token := cfg.Auth.ResolveToken()
		if token == "" && cfg.Alerts.ShowOnAuthError {
			return fmt.Errorf("no GitHub token configured: set auth.token or $%s", cfg.Auth.TokenEnvVar)
		}

		pulls, err := aggregate.New().Run(cmd.Context(), cfg, token)
		if err != nil {
			return err
		}

		if fetchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pulls)
		}

		if len(pulls) == 0 {
			fmt.Println("no open pull requests")
			return nil
		}
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
		num := lipgloss.NewStyle().Bold(true)
		for _, pr := range pulls {
			draft := ""
			if pr.Draft {
				draft = " [draft]"
			}
			fmt.Printf("%s %s %s%s\n    +%d -%d ~%d files · %s · %s\n",
				label.Render(pr.Label),
				num.Render(fmt.Sprintf("#%d", pr.Number)),
				pr.Title, draft,
				pr.Additions, pr.Deletions, pr.ChangedFiles,
				pr.Author.Login, humanize.Time(pr.UpdatedAt))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the list as JSON")
}
