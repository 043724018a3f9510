package scaffolder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"

	"kbsdk/internal/parser"
)

func TestScaffold_CreatesModuleSkeleton(t *testing.T) {
	parentDir := t.TempDir()

	err := Scaffold(Options{Name: "my_module", Dir: parentDir, InitGit: true})
	if err != nil {
		t.Fatalf("Scaffold failed: %v", err)
	}

	moduleDir := filepath.Join(parentDir, "my_module")
	expectedFiles := []string{
		"Dockerfile",
		"kbase.yaml",
		".gitignore",
		filepath.Join("test", "__init__.py"),
		filepath.Join("test", "test_my_module.py"),
		filepath.Join("build", "work", ".gitkeep"),
	}
	for _, relPath := range expectedFiles {
		if _, err := os.Stat(filepath.Join(moduleDir, relPath)); err != nil {
			t.Errorf("Expected %s to exist: %v", relPath, err)
		}
	}

	// The generated kbase.yaml must be accepted by the config parser
	cfg, err := parser.Parse(filepath.Join(moduleDir, "kbase.yaml"))
	if err != nil {
		t.Fatalf("Generated kbase.yaml does not parse: %v", err)
	}
	if cfg.ModuleName != "my_module" {
		t.Errorf("Expected module name 'my_module', got '%s'", cfg.ModuleName)
	}
	if cfg.DockerImageName != "test/my_module:latest" {
		t.Errorf("Expected image 'test/my_module:latest', got '%s'", cfg.DockerImageName)
	}

	// A git repository with an initial commit must exist
	repo, err := git.PlainOpen(moduleDir)
	if err != nil {
		t.Fatalf("Expected git repository in module directory: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Expected an initial commit: %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(commit.Message, "Initial module scaffold") {
		t.Errorf("Unexpected commit message: %q", commit.Message)
	}
}

func TestScaffold_NoGit(t *testing.T) {
	parentDir := t.TempDir()

	if err := Scaffold(Options{Name: "my_module", Dir: parentDir, InitGit: false}); err != nil {
		t.Fatalf("Scaffold failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(parentDir, "my_module", ".git")); !os.IsNotExist(err) {
		t.Error("Expected no .git directory when InitGit is false")
	}
}

func TestScaffold_DryRun(t *testing.T) {
	parentDir := t.TempDir()

	if err := Scaffold(Options{Name: "my_module", Dir: parentDir, InitGit: true, DryRun: true}); err != nil {
		t.Fatalf("Scaffold dry run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(parentDir, "my_module")); !os.IsNotExist(err) {
		t.Error("Dry run must not create the module directory")
	}
}

func TestScaffold_InvalidName(t *testing.T) {
	tests := []string{"", "1module", "my-module", "my module", "my/module"}

	for _, name := range tests {
		if err := Scaffold(Options{Name: name, Dir: t.TempDir()}); err == nil {
			t.Errorf("Expected error for module name %q, got nil", name)
		}
	}
}

func TestScaffold_ExistingDirectory(t *testing.T) {
	parentDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(parentDir, "my_module"), 0755); err != nil {
		t.Fatal(err)
	}

	err := Scaffold(Options{Name: "my_module", Dir: parentDir})
	if err == nil {
		t.Fatal("Expected error when module directory already exists, got nil")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Unexpected error: %v", err)
	}
}
