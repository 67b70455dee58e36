package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/appstage/pkg/cobrax/topics"
)

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "docs [topic]",
		Short:   "Read the built-in documentation",
		Long:    "Docs lists the built-in documentation topics, or renders one.",
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			m, err := docsManager()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return m.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := docsManager()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				cmd.Println("Available topics:")
				for _, name := range m.List() {
					cmd.Printf("  %s\n", name)
				}
				cmd.Println("\nUse 'appstage docs <topic>' to read one.")
				return nil
			}
			topic, ok := m.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown topic %q", args[0])
			}
			cmd.Print(m.Render(topic))
			return nil
		},
	}
}

func docsManager() (*topics.Manager, error) {
	docs, err := fs.Sub(docsFS, "docs")
	if err != nil {
		return nil, err
	}
	return topics.New(docs, topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
}
