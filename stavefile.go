//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"tc":   Test.Core,
	"c":    Check,
	"i":    Install,
	"fmt":  Lint.Fmt,
	"bc":   Bench.Corpus,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles the parenfmt binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/parenfmt", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/parenfmt is up to date")
		return nil
	}
	fmt.Println("Building parenfmt...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/parenfmt", "./cmd/parenfmt")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	return sh.Rm("coverage.html")
}

// Install installs parenfmt to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing parenfmt...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/parenfmt")
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Core runs the parser and layout packages without race detection. It is
// the quick loop when working on formatting rules.
func (Test) Core() error {
	fmt.Println("Running core tests...")
	return sh.RunV("go", append([]string{"test", "-count=1"}, corePackages...)...)
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck verifies code formatting without modifying files.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	fmt.Println("✓ Code formatting OK")
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "./...")
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs all CI checks in idiomatic Go order.
func (CI) Gate() error {
	fmt.Println("Running CI gate checks...")
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.Default,
		Build,
		Test.Default,
		CI.ModTidy,
		SelfCheck,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// ModTidy checks that go mod tidy leaves go.mod untouched.
func (CI) ModTidy() error {
	before, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod after tidy: %w", err)
	}
	if !bytes.Equal(before, after) {
		return errors.New("go.mod changed after 'go mod tidy'")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs the core package benchmarks.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return sh.RunV("go", append([]string{"test", "-run=^$", "-bench=.", "-benchmem"}, corePackages...)...)
}

// Corpus formats a real code base with the freshly built binary and the
// cache disabled. Set PARENFMT_CORPUS to the directory to use.
func (Bench) Corpus() error {
	st.Deps(Build)
	dir := os.Getenv("PARENFMT_CORPUS")
	if dir == "" {
		return errors.New("set PARENFMT_CORPUS to a directory of Lisp sources")
	}
	fmt.Printf("Formatting %s (report only, no cache)...\n", dir)
	start := time.Now()
	err := sh.RunV("bin/parenfmt", "fmt", "--no-cache", "--markdown", "--format", "json", "--compact", dir)
	fmt.Printf("took %s\n", time.Since(start).Round(time.Millisecond))
	return err
}

// SelfCheck runs the built binary over its own Markdown documentation,
// formatting embedded Lisp examples.
func SelfCheck() error {
	st.Deps(Build)
	docs, err := filepath.Glob("*.md")
	if err != nil {
		return fmt.Errorf("list docs: %w", err)
	}
	return sh.RunV("bin/parenfmt", append([]string{"fmt", "--check", "--markdown", "--no-cache"}, docs...)...)
}

// ---------------------------------------------------------------------------
// Helpers (unexported, not targets)
// ---------------------------------------------------------------------------

// corePackages are the packages that turn source text into formatted text.
var corePackages = []string{"./pkg/position", "./pkg/syntax", "./pkg/doc", "./pkg/format"}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
