package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"ArticleScorer/internal/app"
	"ArticleScorer/internal/config"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

type env struct {
	cfg    config.Config
	logger *slog.Logger
}

func (e env) open(ctx context.Context) (*app.Application, error) {
	return app.New(ctx, e.cfg, e.logger)
}

// NewRootCommand creates the articlescorer command tree.
func NewRootCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	e := env{cfg: cfg, logger: logger}

	cmd := &cobra.Command{
		Use:   "articlescorer",
		Short: "Score articles against configurable SEO rubrics",
		Long: `articlescorer evaluates article HTML or Markdown against a rubric of
SEO criteria and reports a 0-100 score with a per-criterion breakdown.

Rubrics belong to a user or, for organization members, to the organization.
Users without a stored rubric are scored with the built-in default.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand(e))
	cmd.AddCommand(newScoreCommand(e))
	cmd.AddCommand(newRubricCommand(e))
	cmd.AddCommand(newMemberCommand(e))

	return cmd
}
