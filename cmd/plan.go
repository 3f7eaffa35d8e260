package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/page"
)

var (
	planWidth  float64
	planHeight float64
)

var planCmd = &cobra.Command{
	Use:   "plan [section...]",
	Short: "Print the resolved entrance plan and layout for a viewport",
	Long: `Resolves each section's entrance timeline for the mode that the given
viewport width selects and prints it with the page layout as JSON. With no
sections, every section is planned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := loadPage(cfg)
		if err != nil {
			return err
		}

		th := motion.Thresholds{Tablet: cfg.Motion.Tablet, Desktop: cfg.Motion.Desktop}
		mode := th.ModeFor(planWidth)
		if len(args) == 0 {
			for _, s := range p.Sections() {
				args = append(args, s.ID)
			}
		}

		plans := make(map[string][]motion.Scheduled, len(args))
		for _, id := range args {
			plan, err := p.Plan(id, mode)
			if err != nil {
				return err
			}
			plans[id] = plan
		}

		out := struct {
			Mode   motion.Mode                   `json:"mode"`
			Layout page.Layout                   `json:"layout"`
			Plans  map[string][]motion.Scheduled `json:"plans"`
		}{mode, p.Layout(mode, planHeight), plans}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Float64Var(&planWidth, "width", 1280, "viewport width in pixels")
	planCmd.Flags().Float64Var(&planHeight, "height", 800, "viewport height in pixels")
	rootCmd.AddCommand(planCmd)
}
