package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/projsnap/internal/tokenizer"
	"github.com/temirov/projsnap/internal/utils"
)

type recordingClipboard struct {
	copied []string
	err    error
}

func (clipboard *recordingClipboard) Copy(text string) error {
	clipboard.copied = append(clipboard.copied, text)
	return clipboard.err
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type commandHarness struct {
	dependencies Dependencies
	clipboard    *recordingClipboard
	logs         *observer.ObservedLogs
	models       []string
}

// newCommandHarness isolates HOME and the working directory so no real configuration is read.
func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()
	originalDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		t.Fatalf("getwd: %v", getwdError)
	}
	if chdirError := os.Chdir(workingDirectory); chdirError != nil {
		t.Fatalf("chdir: %v", chdirError)
	}
	t.Cleanup(func() { _ = os.Chdir(originalDirectory) })

	core, logs := observer.New(zapcore.DebugLevel)
	harness := &commandHarness{clipboard: &recordingClipboard{}, logs: logs}
	harness.dependencies = Dependencies{
		Logger:    zap.New(core),
		LogLevel:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Clipboard: harness.clipboard,
		NewCounter: func(model string) (tokenizer.Counter, string, error) {
			harness.models = append(harness.models, model)
			return runeCounter{}, model, nil
		},
		ExecutablePath: func() (string, error) {
			return "", errors.New("executable path unavailable")
		},
	}
	return harness
}

func (harness *commandHarness) run(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	command := createRootCommand(harness.dependencies)
	var stdout bytes.Buffer
	command.SetOut(&stdout)
	command.SetErr(&stdout)
	command.SetArgs(normalizeToggleArguments(command, arguments))
	executeError := command.Execute()
	return stdout.String(), executeError
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for relativePath, content := range files {
		fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", fullPath, err)
		}
	}
	return rootDirectory
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func TestRootCommandWritesSnapshot(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{
		"a.txt":              "hi",
		"b.txt":              "",
		"c.txt":              "secret",
		"sub/d.txt":          "world",
		utils.IgnoreFileName: "c.txt\n",
		utils.HeaderFileName: "  Project notes \n",
		utils.FooterFileName: "End\n\n",
	})
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")

	stdout, err := harness.run(t, "--root", rootDirectory, "-o", outputPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stdout != "Project structure has been written to "+outputPath+"\n" {
		t.Fatalf("unexpected confirmation %q", stdout)
	}

	expected := "Project notes\n\n---\n\n" +
		"Project Repository Structure:\n\n" +
		"-> sub\n" +
		"\t-> d.txt\n" +
		"-> a.txt\n" +
		"-> b.txt\n" +
		"-> c.txt\n" +
		"\n---\n\n" +
		filepath.Join("sub", "d.txt") + ":\n\n```\nworld\n```\n\n---\n\n" +
		"a.txt:\n\n```\nhi\n```\n\n---\n\n" +
		"b.txt:\n\n[not yet implemented]\n\n---\n\n" +
		"c.txt:\n\n[omitted for brevity]\n\n---\n\n" +
		"End\n"
	if actual := readFile(t, outputPath); actual != expected {
		t.Fatalf("unexpected snapshot:\n got %q\nwant %q", actual, expected)
	}
	if len(harness.clipboard.copied) != 0 || len(harness.models) != 0 {
		t.Fatalf("expected no clipboard or token work without flags")
	}
}

func TestRootCommandOutputInsideRootIsExcluded(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{"a.txt": "a"})
	outputPath := filepath.Join(rootDirectory, utils.DefaultOutputFileName)

	for attempt := 0; attempt < 2; attempt++ {
		if _, err := harness.run(t, "--root", rootDirectory, "--output", outputPath); err != nil {
			t.Fatalf("execute: %v", err)
		}
	}
	if strings.Contains(readFile(t, outputPath), utils.DefaultOutputFileName) {
		t.Fatalf("output file listed itself")
	}
}

func TestRootCommandCopiesAndCountsTokens(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{"a.txt": "hello"})
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")

	if _, err := harness.run(t, "--root", rootDirectory, "-o", outputPath, "--copy", "--tokens", "--model", "stub-model"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	written := readFile(t, outputPath)
	if len(harness.clipboard.copied) != 1 || harness.clipboard.copied[0] != written {
		t.Fatalf("expected the written snapshot to be copied once, got %q", harness.clipboard.copied)
	}
	if len(harness.models) != 1 || harness.models[0] != "stub-model" {
		t.Fatalf("expected tokenizer for stub-model, got %v", harness.models)
	}
	estimates := harness.logs.FilterMessage(logMessageTokenEstimate).All()
	if len(estimates) != 1 {
		t.Fatalf("expected one token estimate log entry, got %d", len(estimates))
	}
	if tokens := estimates[0].ContextMap()[logFieldTokens]; tokens != int64(len([]rune(written))) {
		t.Fatalf("unexpected token estimate %v", tokens)
	}
}

func TestRootCommandClipboardFailureIsNotFatal(t *testing.T) {
	harness := newCommandHarness(t)
	harness.clipboard.err = errors.New("no clipboard")
	rootDirectory := writeProject(t, map[string]string{"a.txt": "a"})
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")

	if _, err := harness.run(t, "--root", rootDirectory, "-o", outputPath, "--copy"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if harness.logs.FilterMessage(logMessageCopyFailed).Len() != 1 {
		t.Fatalf("expected a clipboard warning")
	}
}

func TestRootCommandLayersConfigurationAndFlags(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{
		".hidden.txt": "h",
		"empty.txt":   "",
	})
	workingDirectory, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	configuration := "snapshot:\n  root: " + rootDirectory + "\n  hide_hidden: true\nmarkers:\n  empty: '[empty]'\nclipboard: true\n"
	if err := os.WriteFile(filepath.Join(workingDirectory, utils.LocalConfigFileName), []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	if _, err := harness.run(t, "--copy", "no"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	snapshot := readFile(t, filepath.Join(workingDirectory, utils.DefaultOutputFileName))
	if strings.Contains(snapshot, ".hidden.txt") {
		t.Fatalf("expected hidden entries to be skipped per configuration")
	}
	if !strings.Contains(snapshot, "empty.txt:\n\n[empty]\n") {
		t.Fatalf("expected configured empty marker, got %q", snapshot)
	}
	if len(harness.clipboard.copied) != 0 {
		t.Fatalf("expected --copy no to override the configuration")
	}

	if _, err := harness.run(t, "--hide-hidden=false"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	snapshot = readFile(t, filepath.Join(workingDirectory, utils.DefaultOutputFileName))
	if !strings.Contains(snapshot, "-> .hidden.txt") {
		t.Fatalf("expected flag to re-enable hidden entries")
	}
	if len(harness.clipboard.copied) != 1 {
		t.Fatalf("expected configured clipboard copy, got %d", len(harness.clipboard.copied))
	}
}

func TestRootCommandDefaultsToExecutableDirectory(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{
		"projsnap": "binary",
		"main.go":  "package main",
	})
	harness.dependencies.ExecutablePath = func() (string, error) {
		return filepath.Join(rootDirectory, "projsnap"), nil
	}
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")

	if _, err := harness.run(t, "-o", outputPath); err != nil {
		t.Fatalf("execute: %v", err)
	}
	snapshot := readFile(t, outputPath)
	if !strings.Contains(snapshot, "-> main.go") {
		t.Fatalf("expected executable directory to be the root, got %q", snapshot)
	}
	if strings.Contains(snapshot, "-> projsnap") {
		t.Fatalf("expected the executable to be excluded")
	}
}

func TestRootCommandFallsBackToWorkingDirectory(t *testing.T) {
	harness := newCommandHarness(t)
	workingDirectory, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workingDirectory, "notes.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := harness.run(t); err != nil {
		t.Fatalf("execute: %v", err)
	}
	snapshot := readFile(t, filepath.Join(workingDirectory, utils.DefaultOutputFileName))
	if !strings.Contains(snapshot, "notes.md:\n\n```\n# notes\n```\n") {
		t.Fatalf("expected working directory snapshot, got %q", snapshot)
	}
}

func TestRootCommandMissingRootFails(t *testing.T) {
	harness := newCommandHarness(t)
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")
	if _, err := harness.run(t, "--root", filepath.Join(t.TempDir(), "missing"), "-o", outputPath); err == nil {
		t.Fatalf("expected an error for a missing root")
	}
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file for a failed run")
	}
}

func TestRootCommandVerboseRaisesLogLevel(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{"a.txt": "a"})
	if _, err := harness.run(t, "--root", rootDirectory, "-o", filepath.Join(t.TempDir(), "out.txt"), "-v"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if harness.dependencies.LogLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %v", harness.dependencies.LogLevel.Level())
	}
}

func TestInitCommandWritesLocalConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	stdout, err := harness.run(t, "init")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	workingDirectory, _ := os.Getwd()
	expectedPath := filepath.Join(workingDirectory, utils.LocalConfigFileName)
	if stdout != "Configuration written to "+expectedPath+"\n" {
		t.Fatalf("unexpected confirmation %q", stdout)
	}
	if _, err := harness.run(t, "init"); err == nil {
		t.Fatalf("expected a second init without --force to fail")
	}
	if _, err := harness.run(t, "init", "--force"); err != nil {
		t.Fatalf("expected --force to overwrite: %v", err)
	}
}

func TestRootCommandMaxSizeAndExplicitConfig(t *testing.T) {
	harness := newCommandHarness(t)
	rootDirectory := writeProject(t, map[string]string{"big.txt": "0123456789"})
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configPath, []byte("markers:\n  truncated: '[too big]'\n"), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}
	outputPath := filepath.Join(t.TempDir(), "snapshot.txt")

	if _, err := harness.run(t, "--root", rootDirectory, "-o", outputPath, "--max-size", "4", "--config", configPath); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if snapshot := readFile(t, outputPath); !strings.Contains(snapshot, "big.txt:\n\n[too big]\n") {
		t.Fatalf("expected truncation marker from explicit configuration, got %q", snapshot)
	}

	if _, err := harness.run(t, "--root", rootDirectory, "-o", outputPath, "--config", filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected a missing --config file to fail")
	}
}
