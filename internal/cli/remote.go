package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid operation id %q", raw)
	}
	return id, nil
}

func newUploadCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file|->",
		Short: "Upload a canonical operation and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			c, err := newClient(flags)
			if err != nil {
				return err
			}

			id, err := c.Upload(cmd.Context(), string(data))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newUpdateCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <file|->",
		Short: "Replace a stored operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			c, err := newClient(flags)
			if err != nil {
				return err
			}

			if _, err := c.Update(cmd.Context(), id, string(data)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newDeleteCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := newClient(flags)
			if err != nil {
				return err
			}

			if _, err := c.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newGetCmd(flags *GlobalFlags) *cobra.Command {
	var contentOnly bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := newClient(flags)
			if err != nil {
				return err
			}

			op, err := c.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if contentOnly {
				fmt.Fprintln(cmd.OutOrStdout(), op.Content)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), op)
		},
	}

	cmd.Flags().BoolVar(&contentOnly, "content", false, "print only the canonical content")

	return cmd
}
