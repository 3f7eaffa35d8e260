package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
)

func TestNewRelay(t *testing.T) {
	cfg := config.DefaultConfig()
	relay, name := newRelay(cfg)
	if _, ok := relay.(*contact.SMTPRelay); !ok || name != config.RelaySMTP {
		t.Errorf("default relay %T %s", relay, name)
	}

	cfg.Relay.Kind = config.RelayForm
	relay, name = newRelay(cfg)
	fr, ok := relay.(*contact.FormRelay)
	if !ok || name != config.RelayForm || fr.Endpoint != cfg.Relay.Endpoint {
		t.Errorf("form relay %T %s", relay, name)
	}
}

func TestPlanCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"plan", "hero", "projects",
		"--width", "400", "--height", "700",
		"--config", filepath.Join(t.TempDir(), "missing.yml"),
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Mode   string `json:"mode"`
		Layout struct {
			Height float64 `json:"height"`
		} `json:"layout"`
		Plans map[string][]json.RawMessage `json:"plans"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decoding %s: %v", out.String(), err)
	}
	if got.Mode != "mobile" || got.Layout.Height != 9900 {
		t.Errorf("mode %s height %v", got.Mode, got.Layout.Height)
	}
	if len(got.Plans["hero"]) != 4 || len(got.Plans["projects"]) == 0 || len(got.Plans) != 2 {
		t.Errorf("plans %v", got.Plans)
	}
}

func TestPlanUnknownSection(t *testing.T) {
	rootCmd.SetArgs([]string{"plan", "nowhere", "--config", filepath.Join(t.TempDir(), "missing.yml")})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); rootCmd.SetErr(nil) })
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error")
	}
}
