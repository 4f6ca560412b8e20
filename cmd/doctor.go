package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify credential resolution and API reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Printf("config:   %d target(s), refresh every %s\n",
			len(cfg.Targets), cfg.Refresh.Interval())

		token := cfg.Auth.ResolveToken()
		if token == "" {
			fmt.Printf("token:    none (set auth.token or $%s), unauthenticated quota is 60 req/h\n",
				cfg.Auth.TokenEnvVar)
		} else {
			fmt.Println("token:    resolved")
		}

		hc := &http.Client{Timeout: 15 * time.Second}
		if token != "" {
			hc = oauth2.NewClient(cmd.Context(),
				oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
			hc.Timeout = 15 * time.Second
		}
		gh := gogithub.NewClient(hc)
		if cfg.Auth.APIBaseURL != config.DefaultAPIBaseURL {
			if u, err := url.Parse(strings.TrimSuffix(cfg.Auth.APIBaseURL, "/") + "/"); err == nil {
				gh.BaseURL = u
			}
		}

		limits, _, err := gh.RateLimit.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("API unreachable: %w", err)
		}
		core := limits.GetCore()
		fmt.Printf("API:      ok, %d/%d requests remaining, resets %s\n",
			core.Remaining, core.Limit, core.Reset.Format(time.Kitchen))
		return nil
	},
}
