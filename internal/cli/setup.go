package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/provider"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively configure gg for this repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			return runSetup(a)
		},
	}
}

func runSetup(a *app) error {
	path := config.Path(a.commonGitDir)
	if _, err := os.Stat(path); err == nil {
		if !output.Confirm(fmt.Sprintf("Config already exists at %s. Update it?", path), true) {
			a.splog.Info("Setup cancelled.")
			return nil
		}
	} else {
		a.splog.Info("Setting up gg for this repository...")
	}

	base, err := promptBaseBranch(a)
	if err != nil {
		return err
	}
	a.cfg.Defaults.Base = base

	kind, err := promptProvider(a)
	if err != nil {
		return err
	}
	a.cfg.Defaults.Provider = kind

	username, err := promptBranchUsername(a, kind)
	if err != nil {
		return err
	}
	a.cfg.Defaults.BranchUsername = username

	lint, err := promptLintCommands(a)
	if err != nil {
		return err
	}
	a.cfg.Defaults.Lint = lint

	if err := a.saveConfig(); err != nil {
		return err
	}
	a.splog.Info("%s Wrote config to %s", output.ColorGood("OK"), path)
	return nil
}

func promptBaseBranch(a *app) (string, error) {
	suggested := a.cfg.Defaults.Base
	if suggested == "" {
		if detected, err := a.repo.FindBaseBranch(a.ctx); err == nil {
			suggested = detected
		}
	}

	if suggested != "" {
		prompt := fmt.Sprintf("Use '%s' as the default base branch?", suggested)
		if a.cfg.Defaults.Base != "" {
			prompt = fmt.Sprintf("Keep default base branch '%s'?", suggested)
		}
		if output.Confirm(prompt, true) {
			return suggested, nil
		}
		if output.Confirm("Clear default base branch (auto-detect per repo)?", false) {
			return "", nil
		}
	} else if !output.Confirm("Set a default base branch now?", false) {
		return "", nil
	}

	var input string
	if err := survey.AskOne(&survey.Input{Message: "Default base branch"}, &input); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return input, nil
}

func promptProvider(a *app) (string, error) {
	detected := ""
	if remoteURL, err := a.repo.RemoteURL(a.ctx, "origin"); err == nil {
		if kind, ok := provider.DetectKind(remoteURL); ok {
			detected = string(kind)
		}
	}

	hint := " (could not detect from remote)"
	if detected != "" {
		hint = fmt.Sprintf(" (detected: %s)", detected)
	}

	options := []string{"Auto-detect", "github", "gitlab"}
	defaultOpt := options[0]
	switch a.cfg.Defaults.Provider {
	case string(provider.KindGitHub):
		defaultOpt = "github"
	case string(provider.KindGitLab):
		defaultOpt = "gitlab"
	}

	var choice string
	prompt := &survey.Select{
		Message: "Git hosting provider" + hint,
		Options: options,
		Default: defaultOpt,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	if choice == "Auto-detect" {
		return "", nil
	}
	return choice, nil
}

func promptBranchUsername(a *app, providerKind string) (string, error) {
	suggested := a.cfg.Defaults.BranchUsername
	if suggested == "" && providerKind != "" {
		if prov, err := a.resolveProvider(); err == nil {
			if who, err := prov.Whoami(a.ctx); err == nil {
				suggested = who
			}
		}
	}

	prompt := &survey.Input{Message: "Branch username (used for <user>/<stack> branches)", Default: suggested}
	var input string
	if err := survey.AskOne(prompt, &input); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return input, nil
}

func promptLintCommands(a *app) ([]string, error) {
	existing := a.cfg.Defaults.Lint
	if len(existing) > 0 {
		a.splog.Info("Current lint commands:")
		for _, cmd := range existing {
			a.splog.Info("  %s", cmd)
		}
		if !output.Confirm("Update lint commands?", false) {
			return existing, nil
		}
	}

	suggestions := detectLintSuggestions(a)
	if len(suggestions) > 0 {
		a.splog.Info("Suggested lint commands:")
		for _, cmd := range suggestions {
			a.splog.Info("  %s", cmd)
		}
		if output.Confirm("Use the suggested lint commands?", true) {
			return suggestions, nil
		}
	}

	var lint []string
	for {
		var line string
		prompt := &survey.Input{Message: "Lint command (blank to finish)"}
		if err := survey.AskOne(prompt, &line); err != nil {
			return nil, fmt.Errorf("prompt failed: %w", err)
		}
		if line == "" {
			break
		}
		lint = append(lint, line)
	}
	return lint, nil
}

// detectLintSuggestions offers go vet/gofmt when the repo root looks like a
// Go module, mirroring how the Rust original suggests cargo fmt/clippy for a
// Cargo.toml-rooted repo.
func detectLintSuggestions(a *app) []string {
	workdir := a.repo.Dir()
	if workdir == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(workdir, "go.mod")); err != nil {
		return nil
	}
	return []string{"gofmt -l .", "go vet ./..."}
}
