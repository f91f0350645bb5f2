package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/internal/cli"
	"github.com/yaklabco/parenfmt/pkg/fsutil"
)

const (
	unformattedSource = "(define (f x)\n(+ x 1))\n"
	formattedSource   = "(define (f x)\n  (+ x 1))\n"
)

// project is a temp directory with a config that keeps the cache out of
// the user's cache directory.
type project struct {
	dir    string
	config string
}

func newProject(t *testing.T, extraConfig string) *project {
	t.Helper()

	dir := t.TempDir()
	config := filepath.Join(dir, "parenfmt-test.yml")
	content := "cache:\n  enabled: true\n  path: " + filepath.Join(dir, "cache.db") + "\n" + extraConfig
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))

	return &project{dir: dir, config: config}
}

func (p *project) write(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(p.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command and returns stdout, stderr and the error.
func (p *project) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(append([]string{"--config", p.config, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	bad := p.write(t, "src/bad.scm", unformattedSource)
	p.write(t, "src/good.scm", formattedSource)

	stdout, _, err := p.run(t, "", "fmt", "--check", p.dir)

	require.ErrorIs(t, err, cli.ErrUnformattedFiles)
	assert.Equal(t, cli.ExitUnformatted, cli.ExitCode(err))
	assert.Contains(t, stdout, bad+": needs formatting\n")
	assert.NotContains(t, stdout, "good.scm")
	assert.Contains(t, stdout, "1 file needs formatting (2 files checked)")
	assert.Equal(t, unformattedSource, readFile(t, bad), "--check must not write")
}

func TestIntegration_Write(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "core.rkt", "#lang racket\n"+unformattedSource)

	stdout, _, err := p.run(t, "", "fmt", "--write", path)
	require.NoError(t, err)

	assert.Equal(t, "#lang racket\n"+formattedSource, readFile(t, path))
	assert.Contains(t, stdout, path+": formatted (backup created)\n")

	backup := fsutil.BackupPath(path, fsutil.BackupModeSidecar)
	assert.Equal(t, "#lang racket\n"+unformattedSource, readFile(t, backup))

	// A second run finds nothing to do.
	stdout, _, err = p.run(t, "", "fmt", "--check", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "All files formatted")
}

func TestIntegration_WriteNoBackups(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "a.clj", unformattedSource)

	_, _, err := p.run(t, "", "fmt", "--write", "--no-backups", "--indent", "4", path)
	require.NoError(t, err)

	assert.Equal(t, "(define (f x)\n    (+ x 1))\n", readFile(t, path))
	assert.NoFileExists(t, fsutil.BackupPath(path, fsutil.BackupModeSidecar))
}

func TestIntegration_DryRunDiff(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "a.scm", unformattedSource)

	stdout, _, err := p.run(t, "", "fmt", "--dry-run", "--format", "diff", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "-(+ x 1))")
	assert.Contains(t, stdout, "+  (+ x 1))")
	assert.Equal(t, unformattedSource, readFile(t, path))
}

func TestIntegration_JSON(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "a.scm", unformattedSource)
	broken := p.write(t, "b.scm", "(define (g)\n")

	stdout, _, err := p.run(t, "", "fmt", "--format", "json", path, broken)
	require.ErrorIs(t, err, cli.ErrProcessingFailed)

	var output struct {
		Files []struct {
			Path   string `json:"path"`
			Status string `json:"status"`
			Error  *struct {
				Line int `json:"line"`
			} `json:"error"`
		} `json:"files"`
		Summary struct {
			FilesChanged int `json:"filesChanged"`
			FilesErrored int `json:"filesErrored"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))

	require.Len(t, output.Files, 2)
	assert.Equal(t, path, output.Files[0].Path)
	assert.Equal(t, "needs formatting", output.Files[0].Status)
	require.NotNil(t, output.Files[1].Error)
	assert.Equal(t, 1, output.Summary.FilesChanged)
	assert.Equal(t, 1, output.Summary.FilesErrored)
}

func TestIntegration_ParseErrorContext(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "bad.scm", "(ok)\n(bad \"open\n")

	stdout, _, err := p.run(t, "", "fmt", path)
	require.ErrorIs(t, err, cli.ErrProcessingFailed)

	assert.Contains(t, stdout, path+":")
	assert.Contains(t, stdout, "error:")
	assert.Contains(t, stdout, `    (bad "open`)
}

func TestIntegration_Stdin(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")

	stdout, _, err := p.run(t, unformattedSource, "fmt", "-")
	require.NoError(t, err)
	assert.Equal(t, formattedSource, stdout)

	// Piped input without paths is read too.
	stdout, _, err = p.run(t, "(a\nb)", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "(a\n  b)\n", stdout)
}

func TestIntegration_StdinCheck(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")

	stdout, _, err := p.run(t, unformattedSource, "fmt", "--check", "--stdin-filepath", "core.scm", "-")
	require.ErrorIs(t, err, cli.ErrUnformattedFiles)
	assert.Contains(t, stdout, "core.scm: needs formatting")

	_, _, err = p.run(t, "(a\n", "fmt", "-")
	require.ErrorIs(t, err, cli.ErrProcessingFailed)
}

func TestIntegration_Markdown(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	readme := p.write(t, "README.md", "# Demo\n\n```scheme\n(a\nb)\n```\n\n```go\nfunc main() {}\n```\n")

	_, _, err := p.run(t, "", "fmt", "--write", "--markdown", "--no-backups", readme)
	require.NoError(t, err)

	assert.Equal(t, "# Demo\n\n```scheme\n(a\n  b)\n```\n\n```go\nfunc main() {}\n```\n", readFile(t, readme))
}

func TestIntegration_IgnoreAndLanguages(t *testing.T) {
	t.Parallel()

	p := newProject(t, "ignore:\n  - vendor\n")
	p.write(t, "vendor/lib.scm", unformattedSource)
	p.write(t, "main.clj", unformattedSource)
	scheme := p.write(t, "main.scm", unformattedSource)

	stdout, _, err := p.run(t, "", "fmt", "--check", "--languages", "scheme", p.dir)
	require.ErrorIs(t, err, cli.ErrUnformattedFiles)

	assert.Contains(t, stdout, scheme+": needs formatting")
	assert.NotContains(t, stdout, "vendor")
	assert.NotContains(t, stdout, "main.clj")
}

func TestIntegration_UsageErrors(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "a.scm", formattedSource)

	_, _, err := p.run(t, "", "fmt", "--write", "--check", path)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = p.run(t, "", "fmt", "--format", "sarif", path)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = p.run(t, "", "fmt", "--indent", "0", path)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	p := newProject(t, "backups:\n  mode: cloud\n")
	path := p.write(t, "a.scm", formattedSource)

	_, _, err := p.run(t, "", "fmt", path)
	require.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_Cache(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	path := p.write(t, "a.scm", formattedSource)

	stdout, _, err := p.run(t, "", "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entries: 0")

	_, _, err = p.run(t, "", "fmt", "--check", path)
	require.NoError(t, err)

	stdout, _, err = p.run(t, "", "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entries: 1")

	stdout, _, err = p.run(t, "", "fmt", "--check", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 cached")

	stdout, _, err = p.run(t, "", "cache", "prune", "--all")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 entry\n", stdout)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	p := newProject(t, "")
	out := filepath.Join(p.dir, ".parenfmt.yml")

	_, _, err := p.run(t, "", "init", "--full", "--output", out)
	require.NoError(t, err)

	content := readFile(t, out)
	assert.Contains(t, content, "indent_width: 2")
	assert.Contains(t, content, "mode: sidecar")

	_, _, err = p.run(t, "", "init", "--output", out)
	require.ErrorIs(t, err, cli.ErrUsage, "existing file needs --force")

	_, _, err = p.run(t, "", "init", "--force", "--output", out)
	require.NoError(t, err)
}
