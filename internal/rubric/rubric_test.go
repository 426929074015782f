package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleScorer/internal/domain"
)

func TestDefaultRubricShape(t *testing.T) {
	t.Parallel()

	list := Default()
	require.Len(t, list, 14)

	total := 0
	keys := map[string]bool{}
	types := map[domain.CheckType]bool{}
	for i, c := range list {
		total += c.MaxPoints
		assert.True(t, c.Enabled, c.Key)
		assert.Equal(t, i, c.SortOrder)
		assert.True(t, c.CheckType.Valid(), c.Key)
		assert.False(t, keys[c.Key], "duplicate key %s", c.Key)
		keys[c.Key] = true
		types[c.CheckType] = true
	}
	assert.Equal(t, 100, total)
	assert.Len(t, types, len(domain.CheckTypes))
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	first := Default()
	*first[0].MinValue = 1
	first[0].Label = "changed"

	second := Default()
	assert.Equal(t, 300.0, *second[0].MinValue)
	assert.NotEqual(t, "changed", second[0].Label)
}

func TestDefaultInputsNormalizeBack(t *testing.T) {
	t.Parallel()

	defaults := Default()
	for i, in := range DefaultInputs() {
		c, err := Normalize(in)
		require.NoError(t, err, in.Key)
		assert.Equal(t, defaults[i].Key, c.Key)
		assert.Equal(t, defaults[i].MaxPoints, c.MaxPoints)
		assert.Equal(t, defaults[i].TargetValue, c.TargetValue)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	off := false
	cases := []struct {
		name    string
		in      domain.CriterionInput
		wantErr bool
		check   func(t *testing.T, c domain.Criterion)
	}{
		{
			name: "defaults filled",
			in:   domain.CriterionInput{Key: " intro ", Label: "Intro", CheckType: "keyword_in_intro"},
			check: func(t *testing.T, c domain.Criterion) {
				assert.Equal(t, "intro", c.Key)
				assert.Equal(t, 10, c.MaxPoints)
				assert.Equal(t, "📌", c.Icon)
				assert.True(t, c.Enabled)
			},
		},
		{
			name: "explicit values kept",
			in: domain.CriterionInput{
				Key: "h2", Label: "H2", CheckType: "h2_count", Icon: "🔠",
				MaxPoints: 4, Enabled: &off, MinValue: domain.Float(2),
			},
			check: func(t *testing.T, c domain.Criterion) {
				assert.Equal(t, 4, c.MaxPoints)
				assert.Equal(t, "🔠", c.Icon)
				assert.False(t, c.Enabled)
				assert.Equal(t, 2.0, *c.MinValue)
			},
		},
		{name: "missing key", in: domain.CriterionInput{Label: "X", CheckType: "h2_count"}, wantErr: true},
		{name: "missing label", in: domain.CriterionInput{Key: "x", CheckType: "h2_count"}, wantErr: true},
		{name: "missing check type", in: domain.CriterionInput{Key: "x", Label: "X"}, wantErr: true},
		{name: "unknown check type", in: domain.CriterionInput{Key: "x", Label: "X", CheckType: "reading_time"}, wantErr: true},
		{name: "negative points", in: domain.CriterionInput{Key: "x", Label: "X", CheckType: "h2_count", MaxPoints: -1}, wantErr: true},
		{
			name:    "inverted range",
			in:      domain.CriterionInput{Key: "x", Label: "X", CheckType: "meta_length", MinValue: domain.Float(200), MaxValue: domain.Float(100)},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := Normalize(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCriterion)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestParseYAMLAndJSON(t *testing.T) {
	t.Parallel()

	yamlDoc := []byte(`
version: "2"
criteria:
  - key: words
    label: Long enough
    check_type: word_count
    min_value: 300
    target_value: 1200
    max_points: 20
`)
	f, err := Parse(yamlDoc)
	require.NoError(t, err)
	require.Len(t, f.Criteria, 1)
	assert.Equal(t, "words", f.Criteria[0].Key)
	assert.Equal(t, 1200.0, *f.Criteria[0].TargetValue)

	jsonDoc := []byte(`{"version":"2","criteria":[{"key":"h1","label":"One H1","check_type":"h1_count"}]}`)
	f, err = Parse(jsonDoc)
	require.NoError(t, err)
	assert.Equal(t, "h1_count", f.Criteria[0].CheckType)

	_, err = Parse([]byte(`version: "2"`))
	assert.Error(t, err)
}

func TestExportRoundTripsThroughLoadFile(t *testing.T) {
	t.Parallel()

	raw, err := Export(Default())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Version, f.Version)
	assert.Equal(t, DefaultInputs(), f.Criteria)
}
