package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	theo "github.com/usetheodev/theo-boilerplate"
	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
	"github.com/usetheodev/theo-boilerplate/internal/generators"
	"github.com/usetheodev/theo-boilerplate/internal/logging"
	"github.com/usetheodev/theo-boilerplate/internal/ui"
	"github.com/usetheodev/theo-boilerplate/output"
	"github.com/usetheodev/theo-boilerplate/vcs"
)

// Repository is the version-control view the commands need.
type Repository interface {
	generator.StatusProvider
	Root(ctx context.Context, dir string) (string, error)
}

// Deps are the collaborators behind the commands. Tests swap them for fakes.
type Deps struct {
	Fs       afero.Fs
	Repo     Repository
	Registry *generators.Registry
	In       io.Reader

	// Reviewer builds the approval step used by --review.
	Reviewer func(in io.Reader, out io.Writer) generator.ApproveFunc
}

// DefaultDeps wires the real filesystem, git and the built-in generators.
func DefaultDeps() Deps {
	return Deps{
		Fs:       afero.NewOsFs(),
		Repo:     vcs.NewGit(),
		Registry: generators.Builtin(),
		In:       os.Stdin,
		Reviewer: func(in io.Reader, out io.Writer) generator.ApproveFunc {
			return ui.NewReviewer(in, out).Approve
		},
	}
}

// session holds what the root command resolved for its subcommands.
type session struct {
	deps    Deps
	dir     string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
	out     *output.Printer
}

func (s *session) storage() generator.Storage {
	return generator.NewFSStorage(s.deps.Fs, s.dir)
}

// RootCmd creates the root command for the theo CLI with the real collaborators.
func RootCmd() *cobra.Command {
	return NewRootCmd(DefaultDeps())
}

// NewRootCmd creates the root command and all subcommands over deps.
func NewRootCmd(deps Deps) *cobra.Command {
	s := &session{deps: deps}
	var logLevel string

	cmd := &cobra.Command{
		Use:   "theo",
		Short: "Safe, repeatable boilerplate generation",
		Long: `Theo adds features to existing projects without surprises.

Every generator stages its changes in memory first. Nothing touches disk until
the whole change set is validated, and a generator that is already installed
is skipped:
• Refuses to run on a dirty working copy unless told otherwise
• Previews every change with --dry-run
• Applies creates before deletes, one atomic file write at a time`,
		Version:       theo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd, logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&s.dir, "dir", "", "Project root (default: current directory)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides theo.yml)")
	cmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Enable verbose output for debugging")

	cmd.AddCommand(generateCmd(s))
	cmd.AddCommand(listCmd(s))
	cmd.AddCommand(statusCmd(s))

	return cmd
}

func (s *session) init(cmd *cobra.Command, logLevel string) error {
	s.out = output.New(cmd.OutOrStdout())
	s.out.SetVerbose(s.verbose)

	dir := s.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	s.dir = abs

	cfg, err := config.LoadFs(s.deps.Fs, s.dir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	s.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	s.logger = logging.NewLogger(cmd.ErrOrStderr(), level)

	if cfg.Path != "" {
		s.out.Verbose("Using " + cfg.Path)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
