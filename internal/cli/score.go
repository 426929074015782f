package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"ArticleScorer/internal/domain"
)

type scoreOptions struct {
	user        string
	file        string
	title       string
	meta        string
	keyword     string
	markdown    bool
	noSEOFields bool
	asJSON      bool
}

func newScoreCommand(e env) *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an article file",
		Long: `Score an article against the user's rubric.

Examples:
  articlescorer score --user u1 --file post.html --title "Go testing" --keyword "go testing"
  cat post.md | articlescorer score --user u1 --file - --markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, e, opts)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "", "User identity to resolve the rubric for")
	cmd.Flags().StringVar(&opts.file, "file", "", "Article file (HTML or Markdown), - for stdin")
	cmd.Flags().StringVar(&opts.title, "title", "", "SEO title")
	cmd.Flags().StringVar(&opts.meta, "meta", "", "Meta description")
	cmd.Flags().StringVar(&opts.keyword, "keyword", "", "Focus keyword")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Treat input as Markdown (implied by .md files)")
	cmd.Flags().BoolVar(&opts.noSEOFields, "no-seo-fields", false, "Exclude title and meta criteria")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runScore(cmd *cobra.Command, e env, opts scoreOptions) error {
	raw, err := readArticle(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	content := string(raw)
	if opts.markdown || isMarkdownFile(opts.file) {
		if content, err = renderMarkdown(raw); err != nil {
			return err
		}
	}

	fields := domain.ArticleFields{
		Content:         content,
		Title:           opts.title,
		MetaDescription: opts.meta,
		Keyword:         opts.keyword,
	}
	if opts.noSEOFields {
		off := false
		fields.SEOFieldsEnabled = &off
	}

	application, err := e.open(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	out := application.Scorer().ScoreArticle(cmd.Context(), opts.user, fields)
	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderOutcome(cmd.OutOrStdout(), out)
	return nil
}

func readArticle(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}
	return raw, nil
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func renderMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
