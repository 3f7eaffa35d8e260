package cmd

import (
	"fmt"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	qrOutput string
	qrSize   int
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Write a QR code PNG pointing at the site URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := qrcode.WriteFile(cfg.Site.URL, qrcode.Medium, qrSize, qrOutput); err != nil {
			return fmt.Errorf("writing QR code: %w", err)
		}
		fmt.Printf("Wrote %s for %s\n", qrOutput, cfg.Site.URL)
		return nil
	},
}

func init() {
	qrCmd.Flags().StringVarP(&qrOutput, "output", "o", "qr.png", "output file")
	qrCmd.Flags().IntVar(&qrSize, "size", 256, "image size in pixels")
	rootCmd.AddCommand(qrCmd)
}
