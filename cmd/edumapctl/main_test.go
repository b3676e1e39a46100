package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/section"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreFromStdin(t *testing.T) {
	out, err := run(t, `{"meals_provided": true, "clubs": ["chess"], "tutoring": ""}`,
		"score", "--section", "services", "--json")
	require.NoError(t, err)

	var report completeness.SectionReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, completeness.SectionServices, report.Section)
	assert.Equal(t, 76, report.Score)
	assert.Empty(t, report.MissingRequired)
	assert.Contains(t, report.MissingImportant, "tutoring")
}

func TestScoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"currency": "UZS"}`), 0o644))

	out, err := run(t, "", "score", "-s", "Finance", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "finance")
	assert.Contains(t, out, "fee_monthly_min, fee_monthly_max")
}

func TestScoreRejectsBadInput(t *testing.T) {
	_, err := run(t, `{}`, "score", "--section", "gossip")
	assert.ErrorIs(t, err, completeness.ErrInvalidSection)

	_, err = run(t, `[1,2]`, "score", "--section", "basic")
	assert.Error(t, err)

	_, err = run(t, `{}`, "score")
	assert.Error(t, err, "section flag is required")
}

func TestScoreRejectsPayloadTheAPIRejects(t *testing.T) {
	out, err := run(t, `{"total_teachers": "many", "phd_count": 2}`, "score", "--section", "teachers")
	require.Error(t, err)
	assert.ErrorIs(t, err, section.ErrInvalidPayload)
	assert.Contains(t, out, "total_teachers")
}

func TestSectionsTable(t *testing.T) {
	out, err := run(t, "", "sections")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(completeness.AllSections())+1)
	assert.Contains(t, out, "total_teachers")
}

func TestRecalcNeedsDatabaseURL(t *testing.T) {
	t.Setenv("EDUMAP_DATABASE_URL", "")
	_, err := run(t, "", "recalc")
	assert.ErrorContains(t, err, "database url is required")
}
