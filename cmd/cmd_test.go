// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"tempo/internal/config"
	"tempo/internal/onset"
	"tempo/internal/transport"
)

// run executes the root command with a config file rooted in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "tempo.yaml")
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.History.Path = filepath.Join(dir, "history.db")
	if err := cfg.Save(filepath.Join(dir, "tempo.yaml")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return dir
}

func TestGenerateAnalyzeHistory(t *testing.T) {
	dir := writeConfig(t)
	wavPath := filepath.Join(dir, "click.wav")

	out, err := run(t, dir, "generate", wavPath, "--bpm", "100", "--seconds", "8", "--offset", "0.2")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("generate output = %q", out)
	}

	out, err = run(t, dir, "analyze", "--json", wavPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var ev transport.EstimateEvent
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &ev); err != nil {
		t.Fatalf("analyze output %q: %v", out, err)
	}
	if ev.Type != "estimate" || ev.Source != wavPath || ev.Error != "" {
		t.Errorf("event = %+v", ev)
	}
	if ev.BPM < 96 || ev.BPM > 104 {
		t.Errorf("BPM = %v, want about 100", ev.BPM)
	}
	if ev.Method != "default" {
		t.Errorf("method = %q", ev.Method)
	}

	out, err = run(t, dir, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, wavPath) || !strings.Contains(out, "bpm") {
		t.Errorf("history output = %q", out)
	}
}

func TestAnalyzeMethodFlag(t *testing.T) {
	dir := writeConfig(t)
	wavPath := filepath.Join(dir, "click.wav")
	if _, err := run(t, dir, "generate", wavPath, "--seconds", "6"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := run(t, dir, "--method", "energy", "analyze", "--no-history", wavPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "bpm") {
		t.Errorf("analyze output = %q", out)
	}

	if _, err := run(t, dir, "--method", "bogus", "analyze", wavPath); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestAnalyzeFailures(t *testing.T) {
	dir := writeConfig(t)
	silent := filepath.Join(dir, "silent.wav")
	if _, err := run(t, dir, "generate", silent, "--bpm", "1", "--seconds", "1", "--offset", "5"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := run(t, dir, "analyze", silent, filepath.Join(dir, "missing.wav"))
	if err == nil || !strings.Contains(err.Error(), "2 of 2 files failed") {
		t.Fatalf("analyze error = %v", err)
	}
	if strings.Count(out, "\tfailed\t") != 2 {
		t.Errorf("analyze output = %q", out)
	}

	out, err = run(t, dir, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	failedLines := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.Contains(line, "failed: ") {
			failedLines++
		}
	}
	if failedLines != 2 {
		t.Errorf("history output = %q", out)
	}
}

func TestMethodsCommand(t *testing.T) {
	dir := writeConfig(t)
	out, err := run(t, dir, "methods")
	if err != nil {
		t.Fatalf("methods: %v", err)
	}
	for _, want := range []string{"* default", "specdiff", "hfc", "energy", "phase", "complex", "Complex domain"} {
		if !strings.Contains(out, want) {
			t.Errorf("methods output missing %q:\n%s", want, out)
		}
	}
}

func TestSaveMethod(t *testing.T) {
	dir := writeConfig(t)
	cfgPath := filepath.Join(dir, "tempo.yaml")
	var out bytes.Buffer
	a := &app{configPath: cfgPath, out: &out}
	if err := a.loadConfig(NewRootCommand(&out)); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if err := a.saveMethod(mustMethod(t, "phase")); err != nil {
		t.Fatalf("saveMethod: %v", err)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Method != "phase" {
		t.Errorf("saved method = %q", cfg.Analysis.Method)
	}
}

func TestGenerateValidation(t *testing.T) {
	dir := writeConfig(t)
	if _, err := run(t, dir, "generate", filepath.Join(dir, "x.wav"), "--bpm", "0"); err == nil {
		t.Error("expected error for zero bpm")
	}
	if _, err := run(t, dir, "generate", filepath.Join(dir, "x.wav"), "--bit-depth", "12"); err == nil {
		t.Error("expected error for 12-bit output")
	}
	if _, err := run(t, dir, "analyze"); err == nil {
		t.Error("expected error for analyze without files")
	}
}

func TestBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "methods"); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func mustMethod(t *testing.T, id string) onset.Method {
	t.Helper()
	m, err := onset.ParseMethod(id)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
