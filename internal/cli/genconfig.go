package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/appstage/pkg/config"
	"github.com/arthur-debert/appstage/pkg/style"
)

func newGenConfigCmd() *cobra.Command {
	var (
		write     bool
		effective bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config [source-dir]",
		Aliases: []string{"genconfig"},
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "."
			if len(args) > 0 {
				source = args[0]
			}

			if effective {
				cfg, err := config.Load(source)
				if err != nil {
					return err
				}
				out, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				cmd.Print(out)
				return nil
			}

			content := config.GenerateContent()
			if !write {
				cmd.Print(content)
				return nil
			}

			path := filepath.Join(source, ".appstage.toml")
			if _, err := os.Stat(path); err == nil {
				cmd.PrintErrf("%s %s already exists, not overwriting\n",
					style.WarningStyle.Render("!"), path)
				return nil
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			cmd.Printf("%s Wrote %s\n", style.SuccessIndicator, style.PathStyle.Render(path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write .appstage.toml instead of printing")
	cmd.Flags().BoolVar(&effective, "effective", false, "Print the effective merged configuration")
	cmd.MarkFlagsMutuallyExclusive("write", "effective")

	return cmd
}
