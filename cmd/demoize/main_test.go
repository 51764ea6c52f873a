package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetFlags(t *testing.T) {
	t.Helper()
	flagConfig = filepath.Join(t.TempDir(), "config.yml")
	flagDemosDir = ""
	flagLogLevel = "error"
	t.Setenv("DEMOIZE_DEMOS_DIR", "")

	installFrom, installID, installName, installTags, installVersion = "", "", "", "", ""
	stageVersion = 1.0
	analyzeJSON = false
	archiveTags = ""
	iconOut, iconMinLen, iconMaxLen, iconMaxLines, iconPreview = "icon.png", 0, 0, 0, false
	renderOut, renderScale = "HelloWorld.png", 1.0
	catalogTag, catalogSearch = "", ""
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfigDemosDirFlagWins(t *testing.T) {
	resetFlags(t)
	t.Setenv("DEMOIZE_DEMOS_DIR", "/from/env")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DemosDir != "/from/env" {
		t.Errorf("DemosDir = %q, want env value", cfg.DemosDir)
	}

	flagDemosDir = "/from/flag"
	cfg, err = loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DemosDir != "/from/flag" {
		t.Errorf("DemosDir = %q, want flag value", cfg.DemosDir)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "hello.png")

	if _, err := runCLI(t, "render", "-o", path, "Hello", "PNG", "World"); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h := img.Bounds().Dy(); h <= 2*renderLineHeight {
		t.Errorf("height = %d, want room for three lines", h)
	}
}

func TestInstallAndListFlow(t *testing.T) {
	resetFlags(t)
	demos := filepath.Join(t.TempDir(), "demos")
	src := t.TempDir()
	os.WriteFile(filepath.Join(src, "hello1Demo.py"), []byte("print('hi')\n"), 0644)

	out, err := runCLI(t, "install", "--demos-dir", demos, "--from", src, "--id", "hello1", "--name", "Hello World", "--tags", "Graphics")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "WARNING: Icon file will be generated.") {
		t.Errorf("missing icon warning:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(demos, "hello1", "icon.png")); err != nil {
		t.Errorf("icon not generated: %v", err)
	}

	out, err = runCLI(t, "catalog", "list", "--demos-dir", demos, "--tag", "Graphics")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if !strings.Contains(out, "hello1") {
		t.Errorf("catalog list missing demo:\n%s", out)
	}

	out, err = runCLI(t, "history", "--demos-dir", demos)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("history missing completed install:\n%s", out)
	}
}
