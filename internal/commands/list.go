package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usetheodev/theo-boilerplate/generator"
)

var (
	installedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// listCmd shows the registered generators and whether each is installed.
// Detection only reads; nothing is staged or written.
func listCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generators and their install state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			plain := !isTerminal(w)
			style := func(st lipgloss.Style, text string) string {
				if plain {
					return text
				}
				return st.Render(text)
			}

			tree := generator.NewTree(s.dir, s.storage())
			for _, e := range s.deps.Registry.Entries() {
				state := style(mutedStyle, "needs arguments")
				if e.MinArgs == 0 {
					gen, err := e.New(s.cfg, nil)
					if err != nil {
						return err
					}
					detection := generator.Detect(cmd.Context(), tree, gen.Probes())
					state = "not installed"
					if detection.Installed {
						state = style(installedStyle, "installed")
					}
					for _, r := range detection.Results {
						if r.Err != nil {
							s.out.Verbose(fmt.Sprintf("%s: %s: %v", e.Name, r.Probe, r.Err))
						}
					}
				}

				name := e.Name
				if e.Usage != "" {
					name += " " + e.Usage
				}
				if _, err := fmt.Fprintf(w, "  %-32s %-16s %s\n", name, state, e.Short); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
