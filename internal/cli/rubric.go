package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ArticleScorer/internal/app"
	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/rubric"
)

func newRubricCommand(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Inspect and change scoring rubrics",
	}

	cmd.AddCommand(newRubricShowCommand(e))
	cmd.AddCommand(newRubricMutationCommand(e, "init", "Store the default rubric for the user's scope", 0,
		func(ctx context.Context, a *app.Application, user string, _ []string) ([]domain.Criterion, error) {
			return a.Rubrics().Initialize(ctx, user)
		}))
	cmd.AddCommand(newRubricMutationCommand(e, "reset", "Replace the scope's rubric with the defaults", 0,
		func(ctx context.Context, a *app.Application, user string, _ []string) ([]domain.Criterion, error) {
			return a.Rubrics().Reset(ctx, user)
		}))
	cmd.AddCommand(newRubricMutationCommand(e, "toggle KEY", "Enable or disable a criterion", 1,
		func(ctx context.Context, a *app.Application, user string, args []string) ([]domain.Criterion, error) {
			c, err := a.Rubrics().Toggle(ctx, user, args[0])
			if err != nil {
				return nil, err
			}
			return []domain.Criterion{c}, nil
		}))
	cmd.AddCommand(newRubricMutationCommand(e, "delete KEY", "Remove a criterion", 1,
		func(ctx context.Context, a *app.Application, user string, args []string) ([]domain.Criterion, error) {
			return nil, a.Rubrics().Delete(ctx, user, args[0])
		}))
	cmd.AddCommand(newRubricImportCommand(e))
	cmd.AddCommand(newRubricDefaultsCommand())

	return cmd
}

func newRubricShowCommand(e env) *cobra.Command {
	var user string
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the rubric that applies to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			res, err := application.Rubrics().Resolve(cmd.Context(), user)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				raw, err := rubric.Export(res.Criteria)
				if err != nil {
					return err
				}
				_, err = out.Write(raw)
				return err
			}

			fmt.Fprintf(out, "scope %s, default=%t, can manage=%t\n", res.Scope, res.IsDefault, res.CanManage)
			renderCriteria(out, res.Criteria)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User identity")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print as an importable YAML document")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

type mutation func(ctx context.Context, a *app.Application, user string, args []string) ([]domain.Criterion, error)

func newRubricMutationCommand(e env, use, short string, nargs int, run mutation) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			criteria, err := run(cmd.Context(), application, user, args)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: ok\n", cmd.Name())
			renderCriteria(cmd.OutOrStdout(), criteria)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User identity")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRubricImportCommand(e env) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Upsert every criterion of a YAML or JSON rubric file",
		Long: `Upsert every criterion of a rubric file into the user's scope.
Without FILE the scoring.rubricFile setting is used. Invalid entries are
reported and skipped; valid ones are still saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.cfg.Scoring.RubricFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no rubric file given and scoring.rubricFile is not set")
			}

			file, err := rubric.LoadFile(path)
			if err != nil {
				return err
			}

			application, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			saved, err := application.Rubrics().BatchReplace(cmd.Context(), user, file.Criteria)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d of %d criteria\n", len(saved), len(file.Criteria))
			renderCriteria(out, saved)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User identity")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRubricDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in default rubric as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := rubric.Export(rubric.Default())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
