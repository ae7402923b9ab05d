package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/settings"
)

func newSettingsCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or import the persisted settings",
	}

	var resolved bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := settings.Open(root.store)
			if err != nil {
				return err
			}
			s, err := repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			if resolved {
				s = settings.Merge(s, settings.FromConfig(s.Resolve()))
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(s)
		},
	}
	show.Flags().BoolVar(&resolved, "resolved", false, "include built-in defaults for unset fields")

	imp := &cobra.Command{
		Use:   "import <chart>",
		Short: "Merge a chart file into the stored settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := settings.Open(root.store)
			if err != nil {
				return err
			}
			stored, err := repo.Load(ctx)
			if err != nil {
				return err
			}
			fromFile, err := readChart(args[0])
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, settings.Merge(stored, fromFile)); err != nil {
				return fmt.Errorf("保存设置失败: %w", err)
			}
			loggerFromContext(ctx).Info("settings imported", "chart", args[0], "store", root.store)
			return nil
		},
	}

	cmd.AddCommand(show, imp)
	return cmd
}
