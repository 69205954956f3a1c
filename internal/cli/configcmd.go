package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/internal/config"
	"github.com/matzehuels/revetment/pkg/errors"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	p, err := config.Path()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate config")
	}
	return p, nil
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return cfg.Write(cmd.OutOrStdout())
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", p)
			}
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config directory")
			}
			f, err := os.Create(p)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", p)
			}
			if err := config.Default().Write(f); err != nil {
				f.Close()
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", p)
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", p)
			}

			printSuccess(cmd.OutOrStdout(), "Wrote default configuration")
			printFile(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
