// Package cli provides the copilotctl command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"copilot-ops/internal/client"
	"copilot-ops/internal/config"
	"copilot-ops/internal/locale"
)

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	API        string
	Locale     string
}

// Execute runs copilotctl with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(&GlobalFlags{}).ExecuteContext(ctx)
}

func NewRootCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copilotctl",
		Short: "Convert, validate and publish copilot operations",
		Long: `copilotctl works with copilot operation documents.

Offline commands (editable, qualify, validate) run the normalizers and the
schema validator locally. Online commands (upload, update, delete, get) talk to
a running copilot service.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default: environment only)")
	cmd.PersistentFlags().StringVar(&flags.API, "api", "", "service base URL, overrides the config")
	cmd.PersistentFlags().StringVar(&flags.Locale, "locale", "", "message language (default "+locale.Default+")")

	cmd.AddCommand(
		newEditableCmd(flags),
		newQualifyCmd(flags),
		newValidateCmd(flags),
		newUploadCmd(flags),
		newUpdateCmd(flags),
		newDeleteCmd(flags),
		newGetCmd(flags),
	)

	return cmd
}

func loadConfig(flags *GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.Load(flags.ConfigPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}

	if flags.API != "" {
		cfg.Client.BaseURL = flags.API
	}
	if flags.Locale != "" {
		cfg.Validation.Locale = flags.Locale
	}
	return cfg, nil
}

func newClient(flags *GlobalFlags) (*client.Client, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client, cfg.Validation.Locale), nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
