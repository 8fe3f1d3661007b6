package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/treenav-dev/treenav/internal/fileutil"
)

// DoctorReport is the machine-readable result of the doctor checks.
type DoctorReport struct {
	ConfigPath    string   `json:"configPath"`
	ConfigFound   bool     `json:"configFound"`
	ServerCommand string   `json:"serverCommand"`
	ServerPath    string   `json:"serverPath,omitempty"`
	Issues        []string `json:"issues,omitempty"`
	Healthy       bool     `json:"healthy"`
}

func RunDoctor(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to read --config flag: %w", err)
	}

	report := DoctorReport{ConfigPath: configPath}
	if _, statErr := os.Stat(configPath); statErr == nil {
		report.ConfigFound = true
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		report.Issues = append(report.Issues, err.Error())
	}
	report.ServerCommand = cfg.Server.Command

	if cfg.Server.Command == "" {
		report.Issues = append(report.Issues, "no analysis server configured")
	} else if path, lookErr := exec.LookPath(cfg.Server.Command); lookErr != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("analysis server %q not found on PATH", cfg.Server.Command))
	} else {
		report.ServerPath = path
	}

	if cfg.Docs.CacheSize <= 0 {
		report.Issues = append(report.Issues, "docs.cacheSize must be positive")
	}

	report.Healthy = len(report.Issues) == 0

	if asJSON, flagErr := cmd.Flags().GetBool("json"); flagErr == nil && asJSON {
		return fileutil.PrintJSONTo(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	status := "ok"
	if !report.Healthy {
		status = "issues"
	}
	fmt.Fprintf(out, "doctor: %s\n", status)
	fmt.Fprintf(out, "config: %s (found=%t)\n", report.ConfigPath, report.ConfigFound)
	if report.ServerPath != "" {
		fmt.Fprintf(out, "server: %s (%s)\n", report.ServerCommand, report.ServerPath)
	} else {
		fmt.Fprintf(out, "server: %s\n", report.ServerCommand)
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "issue: %s\n", issue)
	}
	if !report.Healthy {
		return fmt.Errorf("doctor found %d issue(s)", len(report.Issues))
	}
	return nil
}
