package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/report"
)

// generateCmd runs one generator through the staged pipeline.
func generateCmd(s *session) *cobra.Command {
	var opts generator.Options
	var review, diff bool

	cmd := &cobra.Command{
		Use:   "generate [generator] [args...]",
		Short: "Run a generator against the project",
		Long: `Run a generator against the project.

The generator stages its changes, then theo either previews them (--dry-run)
or commits them. A generator whose probes all pass is already installed and is
skipped unless --force is given.

Flags:
  --dry-run      report the changes without writing anything
  --allow-dirty  run even when the working copy has uncommitted changes
  --force        like --allow-dirty, and also re-run an installed generator
  --review       approve the staged changes interactively before writing
  --diff         print a unified diff of every change

Examples:
  theo generate editorconfig
  theo generate ci --dry-run
  theo generate module users --review
  theo generate config-field Timeout time.Duration request_timeout`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := s.deps.Registry.New(args[0], s.cfg, args[1:])
			if err != nil {
				return err
			}

			s.out.Verbose(fmt.Sprintf("Generating %s in %s (dry-run=%v, force=%v, allow-dirty=%v)",
				gen.Name(), s.dir, opts.DryRun, opts.Force, opts.AllowDirty))

			runner := generator.NewRunner(s.dir, s.storage())
			runner.Logger = s.logger
			if s.cfg.RequireClean {
				runner.Status = s.deps.Repo
			}
			if !cmd.Flags().Changed("review") {
				review = s.cfg.Review
			}
			if review && s.deps.Reviewer != nil {
				runner.Approve = s.deps.Reviewer(s.deps.In, cmd.OutOrStdout())
			}

			res, runErr := runner.Run(cmd.Context(), gen, opts)

			w := cmd.OutOrStdout()
			if err := report.Render(w, res, report.Options{
				Diff:    diff || opts.DryRun,
				Verbose: s.verbose,
				Plain:   !isTerminal(w),
			}); err != nil {
				return err
			}

			if runErr != nil {
				return fmt.Errorf("%s aborted", gen.Name())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview changes without writing")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Bypass the working-copy check and re-run installed generators")
	cmd.Flags().BoolVar(&opts.AllowDirty, "allow-dirty", false, "Bypass the working-copy check only")
	cmd.Flags().BoolVar(&review, "review", false, "Review staged changes before writing (default from theo.yml)")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a unified diff of every change")

	return cmd
}
