package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"copilot-ops/internal/levels"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/validation"
)

// ErrInvalid is returned by validate for a document that fails validation.
var ErrInvalid = errors.New("operation is invalid")

func newEditableCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "editable <file|->",
		Short: "Print the editable form of a canonical operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := operation.ParseCanonical(data)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), operation.ToEditable(doc, operation.NewCounter()))
		},
	}
}

func newQualifyCmd(flags *GlobalFlags) *cobra.Command {
	var levelsPath string

	cmd := &cobra.Command{
		Use:   "qualify <file|->",
		Short: "Print the canonical wire form of an editable operation",
		Long: `Print the canonical wire form of an editable operation.

A missing title is taken from the level catalog given by --levels (a seed file
or a directory of them), falling back to levels.seed_file of the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := operation.ParseEditable(data)
			if err != nil {
				return err
			}

			if levelsPath == "" {
				cfg, err := loadConfig(flags)
				if err != nil {
					return err
				}
				levelsPath = cfg.Levels.SeedFile
			}

			var catalog []operation.Level
			if levelsPath != "" {
				catalog, err = levels.LoadSeed(cmd.Context(), levelsPath)
				if err != nil {
					return err
				}
			}

			tree, err := operation.ToQualified(doc, catalog)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tree)
		},
	}

	cmd.Flags().StringVarP(&levelsPath, "levels", "l", "", "level seed file or directory")

	return cmd
}

func newValidateCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate an editable operation against the copilot schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := operation.ParseEditable(data)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			v, err := validation.New(cfg.Validation.Locale)
			if err != nil {
				return err
			}

			res := v.Validate(doc)
			if res.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return ErrInvalid
		},
	}
}
