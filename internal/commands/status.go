package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/project"
	"github.com/usetheodev/theo-boilerplate/vcs"
)

// statusCmd reports whether generators may run here and what theo.yml records.
func statusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working-copy state and recorded features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if root, err := s.deps.Repo.Root(ctx, s.dir); err == nil {
				s.out.Info("Repository: " + root)
			}

			gate, err := generator.NewGate(s.deps.Repo, s.dir).Check(ctx, generator.Options{})
			switch {
			case errors.Is(err, vcs.ErrNotRepository):
				s.out.Warn("Not a git repository: generators need --allow-dirty to run here")
			case err != nil:
				s.out.Error(err.Error())
			case gate.Clean:
				s.out.Success("Working copy is clean")
			default:
				s.out.Warn(fmt.Sprintf("Working copy has %d uncommitted change(s):", len(gate.Dirty)))
				for _, p := range gate.Dirty {
					s.out.Step(p)
				}
			}
			if !s.cfg.RequireClean {
				s.out.Info("require_clean is off: the working-copy check is skipped")
			}

			found, settings, err := project.DetectSettings(generator.NewTree(s.dir, s.storage()))
			if err != nil {
				return err
			}
			if !found {
				s.out.Info("No " + project.ConfigFile + " (using defaults)")
				return nil
			}
			features := settings.EnabledFeatures()
			if len(features) == 0 {
				s.out.Info("No features recorded in " + settings.ConfigPath)
				return nil
			}
			s.out.Info("Features: " + strings.Join(features, ", "))
			return nil
		},
	}
}
