package cli_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/codepack/internal/cli"
	"github.com/tyemirov/codepack/internal/commands"
)

const (
	testWorkingDirectory = "/work"
	testHomeDirectory    = "/home/tester"
)

type recordingClipboard struct {
	copied []string
}

func (clipboard *recordingClipboard) Copy(text string) error {
	clipboard.copied = append(clipboard.copied, text)
	return nil
}

type cliHarness struct {
	fileSystem afero.Fs
	status     *bytes.Buffer
	stdout     *bytes.Buffer
	logs       *observer.ObservedLogs
	clipboard  *recordingClipboard
}

func newCLIHarness(t *testing.T, files map[string]string) *cliHarness {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	if mkdirError := fileSystem.MkdirAll(testWorkingDirectory, 0o755); mkdirError != nil {
		t.Fatalf("creating working directory: %v", mkdirError)
	}
	for path, content := range files {
		if writeError := afero.WriteFile(fileSystem, path, []byte(content), 0o644); writeError != nil {
			t.Fatalf("writing %s: %v", path, writeError)
		}
	}
	return &cliHarness{
		fileSystem: fileSystem,
		status:     &bytes.Buffer{},
		stdout:     &bytes.Buffer{},
		clipboard:  &recordingClipboard{},
	}
}

func (harness *cliHarness) run(arguments ...string) error {
	core, logs := observer.New(zapcore.InfoLevel)
	harness.logs = logs
	rootCommand := cli.NewRootCommand(cli.Dependencies{
		FileSystem:   harness.fileSystem,
		Logger:       zap.New(core),
		StatusWriter: harness.status,
		Clock: func() time.Time {
			return time.Date(2026, time.October, 18, 14, 3, 5, 0, time.Local)
		},
		Clipboard:        harness.clipboard,
		WorkingDirectory: testWorkingDirectory,
		HomeDirectory:    testHomeDirectory,
		ProgramName:      "codepack",
	})
	rootCommand.SetOut(harness.stdout)
	rootCommand.SetErr(harness.stdout)
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

func (harness *cliHarness) readFile(t *testing.T, path string) string {
	t.Helper()
	content, readError := afero.ReadFile(harness.fileSystem, path)
	if readError != nil {
		t.Fatalf("reading %s: %v", path, readError)
	}
	return string(content)
}

func (harness *cliHarness) loggedMessages() []string {
	var messages []string
	for _, entry := range harness.logs.All() {
		messages = append(messages, entry.Message)
	}
	return messages
}

func TestRootCommandPacksProject(t *testing.T) {
	harness := newCLIHarness(t, map[string]string{
		"/work/src/main.go":          "package main\n",
		"/work/notes.log":            "debug output",
		"/work/fixtures/sample.json": "{}",
	})

	if runError := harness.run("--exclude", "*.log", "--ignore-dirs", "fixtures", "-o", "context.md"); runError != nil {
		t.Fatalf("run error: %v", runError)
	}

	document := harness.readFile(t, "/work/context.md")
	if !strings.Contains(document, "## File: `src/main.go`\n\n```go\npackage main\n```") {
		t.Fatalf("expected main.go section, got:\n%s", document)
	}
	for _, unexpected := range []string{"notes.log", "fixtures", "context.md"} {
		if strings.Contains(document, unexpected) {
			t.Fatalf("document unexpectedly mentions %s:\n%s", unexpected, document)
		}
	}
	if !strings.Contains(harness.status.String(), "\rProcessed: 1 files | Tokens: ~3") {
		t.Fatalf("unexpected status output %q", harness.status.String())
	}
	if !strings.Contains(harness.status.String(), strings.Repeat("=", 40)) {
		t.Fatalf("expected summary separator in status output %q", harness.status.String())
	}
	messages := strings.Join(harness.loggedMessages(), "\n")
	for _, expected := range []string{"Dump Complete: /work/context.md", "Files Packed: 1", "Skipped (Size): 0"} {
		if !strings.Contains(messages, expected) {
			t.Fatalf("expected log %q in:\n%s", expected, messages)
		}
	}
	if len(harness.clipboard.copied) != 0 {
		t.Fatalf("clipboard must stay untouched unless requested")
	}
}

func TestRootCommandUsesTimestampedDefaultOutput(t *testing.T) {
	harness := newCLIHarness(t, map[string]string{"/work/a.txt": "a"})
	if runError := harness.run(); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	document := harness.readFile(t, "/work/CODEBASE_DUMP_20261018_140305.md")
	if !strings.HasPrefix(document, "# Codebase Dump\n> Generated: 2026-10-18 14:03:05\n> Source: `/work`\n") {
		t.Fatalf("unexpected header:\n%s", document)
	}
}

func TestRootCommandLayersConfiguration(t *testing.T) {
	harness := newCLIHarness(t, map[string]string{
		"/work/.codepack.yaml": "max_size: 4\noutput: layered.md\n",
		"/work/a.txt":          "hello world",
	})

	if runError := harness.run(); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	if strings.Contains(harness.readFile(t, "/work/layered.md"), "## File: `a.txt`") {
		t.Fatalf("file larger than the configured max size must be skipped")
	}

	t.Setenv("CODEPACK_MAX_SIZE", "8")
	if runError := harness.run(); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	if strings.Contains(harness.readFile(t, "/work/layered.md"), "## File: `a.txt`") {
		t.Fatalf("environment max size still excludes an eleven byte file")
	}

	if runError := harness.run("--max-size", "100"); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	if !strings.Contains(harness.readFile(t, "/work/layered.md"), "## File: `a.txt`") {
		t.Fatalf("an explicit flag must override files and environment")
	}
}

func TestRootCommandCopiesToClipboard(t *testing.T) {
	harness := newCLIHarness(t, map[string]string{"/work/a.txt": "a"})
	if runError := harness.run("--clipboard", "-o", "/work/out.md"); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	if len(harness.clipboard.copied) != 1 {
		t.Fatalf("expected one clipboard copy, got %d", len(harness.clipboard.copied))
	}
	if harness.clipboard.copied[0] != harness.readFile(t, "/work/out.md") {
		t.Fatalf("clipboard content differs from the document")
	}
}

func TestRootCommandRejectsMissingRoot(t *testing.T) {
	harness := newCLIHarness(t, nil)
	runError := harness.run("--root", "missing", "-o", "out.md")
	if !errors.Is(runError, commands.ErrRootMissing) {
		t.Fatalf("expected ErrRootMissing, got %v", runError)
	}
	if exists, _ := afero.Exists(harness.fileSystem, "/work/out.md"); exists {
		t.Fatalf("no output must be created for a missing root")
	}
}

func TestRootCommandRejectsMissingConfigFile(t *testing.T) {
	harness := newCLIHarness(t, nil)
	if runError := harness.run("--config", "absent.yaml"); runError == nil {
		t.Fatalf("expected an error for a missing --config file")
	}
}

func TestRootCommandPrintsVersion(t *testing.T) {
	harness := newCLIHarness(t, nil)
	if runError := harness.run("--version"); runError != nil {
		t.Fatalf("run error: %v", runError)
	}
	if !strings.HasPrefix(harness.stdout.String(), "codepack version: ") {
		t.Fatalf("unexpected version output %q", harness.stdout.String())
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	harness := newCLIHarness(t, nil)

	if runError := harness.run("init"); runError != nil {
		t.Fatalf("init error: %v", runError)
	}
	if exists, _ := afero.Exists(harness.fileSystem, "/work/.codepack.yaml"); !exists {
		t.Fatalf("expected local configuration file")
	}
	if runError := harness.run("init"); runError == nil {
		t.Fatalf("expected init to refuse overwriting without --force")
	}
	if runError := harness.run("init", "--force"); runError != nil {
		t.Fatalf("init --force error: %v", runError)
	}
	if runError := harness.run("init", "--target", "global"); runError != nil {
		t.Fatalf("init global error: %v", runError)
	}
	if exists, _ := afero.Exists(harness.fileSystem, "/home/tester/.codepack/config.yaml"); !exists {
		t.Fatalf("expected global configuration file")
	}
	if runError := harness.run("init", "--target", "elsewhere"); runError == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}
