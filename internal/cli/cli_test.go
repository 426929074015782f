package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleScorer/internal/config"
	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/logging"
	"ArticleScorer/internal/usecase"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(t.TempDir(), "scorer.db"),
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(cfg, logging.New("error", "text"))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRubricDefaults(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testConfig(t), "rubric", "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "version: \"2\"")
	assert.Contains(t, out, "check_type: word_count")
	assert.Contains(t, out, "check_type: meta_present")
}

func TestScoreMarkdownFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	post := writeFile(t, "post.md", "# Go testing\n\nGo testing keeps **code** honest.\n\n## Setup\n\n## Run\n")

	out, err := execute(t, cfg, "score", "--user", "u1", "--file", post, "--keyword", "go testing", "--json")
	require.NoError(t, err)

	var outcome usecase.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.True(t, outcome.Rubric.IsDefault)

	byKey := map[string]domain.CheckResult{}
	for _, d := range outcome.Result.Details {
		byKey[d.Key] = d
	}
	assert.True(t, byKey["h1_count"].IsValid, "markdown heading should render to <h1>")
	assert.True(t, byKey["keyword_in_h1"].IsValid)
	assert.Equal(t, "2 H2", byKey["h2_count"].Detail)

	out, err = execute(t, cfg, "score", "--user", "u1", "--file", post, "--no-seo-fields")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: ")
	assert.Contains(t, out, "/65 points)")
}

func TestRubricLifecycleCommands(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := execute(t, cfg, "rubric", "init", "--user", "u1")
	require.NoError(t, err)

	_, err = execute(t, cfg, "rubric", "init", "--user", "u1")
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	out, err := execute(t, cfg, "rubric", "toggle", "word_count", "--user", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "off word_count")

	_, err = execute(t, cfg, "rubric", "delete", "h3_count", "--user", "u1")
	require.NoError(t, err)

	out, err = execute(t, cfg, "rubric", "show", "--user", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "default=false")
	assert.NotContains(t, out, "h3_count")

	out, err = execute(t, cfg, "rubric", "reset", "--user", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "h3_count")
}

func TestRubricImportSkipsInvalidEntries(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Scoring.RubricFile = writeFile(t, "rubric.yaml", `
version: "2"
criteria:
  - key: headings
    label: Enough subheadings
    check_type: h2_count
    min_value: 2
  - key: broken
    label: Broken
    check_type: reading_time
`)

	out, err := execute(t, cfg, "rubric", "import", "--user", "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCriterion)
	assert.Contains(t, out, "imported 1 of 2 criteria")

	out, err = execute(t, cfg, "rubric", "show", "--user", "u1", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "key: headings")
}

func TestMemberCannotChangeOrganizationRubric(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := execute(t, cfg, "member", "set", "--org", "acme", "--user", "u2", "--role", "member")
	require.NoError(t, err)

	_, err = execute(t, cfg, "rubric", "init", "--user", "u2")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = execute(t, cfg, "member", "set", "--org", "acme", "--user", "u2", "--role", "chief")
	assert.Error(t, err)

	_, err = execute(t, cfg, "member", "remove", "--org", "acme", "--user", "u2")
	require.NoError(t, err)

	_, err = execute(t, cfg, "rubric", "init", "--user", "u2")
	assert.NoError(t, err)
}
