package cmd

import (
	"fmt"

	"github.com/pullwatch/pullwatch/internal/aggregate"
	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/pullwatch/pullwatch/internal/display"
	"github.com/pullwatch/pullwatch/internal/engine"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal view of open pull requests with periodic refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if len(cfg.Targets) == 0 {
			return fmt.Errorf("no targets configured, run `pullwatch config init` first")
		}

		eng := engine.New(aggregate.New(), *cfg)
		signals := eng.Register("terminal", nil)
		eng.Start()
		defer eng.Stop()

		return display.NewModel(eng, "terminal", signals).Run()
	},
}
