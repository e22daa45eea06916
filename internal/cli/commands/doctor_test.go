package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/testutil"
)

func executeDoctor(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	cmd := NewDoctorCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func findCheck(checks []HealthCheck, name string) HealthCheck {
	for _, hc := range checks {
		if hc.Name == name {
			return hc
		}
	}
	return HealthCheck{}
}

func TestDoctor_AutoTarget(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("LEAPCHECK_TARGET_VERSION", "auto")

	out, err := executeDoctor(t, dir, "--format", "json")
	require.NoError(t, err)

	var got DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "go1.21", got.Target)
	assert.Equal(t, "go.mod", got.TargetSource)
	assert.Equal(t, 2, got.Files)
	assert.Equal(t, statusPass, findCheck(got.HealthChecks, "target_version").Status)
	assert.Equal(t, statusPass, findCheck(got.HealthChecks, "encoding").Status)
	assert.Equal(t, statusWarn, findCheck(got.HealthChecks, "config").Status)

	assert.Contains(t, got.Eligible, "GM02")
	var gated []string
	for _, r := range got.Gated {
		gated = append(gated, r.ID)
	}
	assert.ElementsMatch(t, []string{"GM03", "GM04"}, gated)
}

func TestDoctor_InvalidTarget(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("LEAPCHECK_TARGET_VERSION", "soon")

	out, err := executeDoctor(t, dir, "--format", "json")
	require.NoError(t, err)

	var got DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	hc := findCheck(got.HealthChecks, "target_version")
	assert.Equal(t, statusWarn, hc.Status)
	assert.Contains(t, hc.Detail, `"soon"`)
	assert.Empty(t, got.Gated, "an unusable target runs every rule")
}

func TestDoctor_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("LEAPCHECK_TARGET_VERSION", "1.18")

	out, err := executeDoctor(t, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "# leapcheck doctor")
	assert.Contains(t, out, "| target_version | pass |")
	assert.Contains(t, out, "## Skipped for go1.18 (3)")
	assert.Contains(t, out, "- GM02 needs go1.21")
	testutil.AssertValidMarkdown(t, out)
}

func TestBuildDoctorOutput_BadEncoding(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := config.DefaultConfig()
	cfg.Encoding = "klingon"

	out, err := buildDoctorOutput(cfg, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, statusFail, findCheck(out.HealthChecks, "encoding").Status)
}
