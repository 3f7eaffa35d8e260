package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/config"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration, or write the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configWrite {
			if _, err := os.Stat(cfgFile); err == nil {
				return fmt.Errorf("%s already exists", cfgFile)
			}
			if err := config.DefaultConfig().Save(cfgFile); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration to %s\n", cfgFile)
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.Admin.Password = redact(cfg.Admin.Password)
		cfg.SMTP.Pass = redact(cfg.SMTP.Pass)
		cfg.DB.Salt = redact(cfg.DB.Salt)
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Print(string(out))
		if err := cfg.Validate(); err != nil {
			fmt.Printf("\n# invalid: %v\n", err)
		}
		return nil
	},
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "write the defaults to --config")
	rootCmd.AddCommand(configCmd)
}
