package scaffolder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const dockerfileTemplate = `FROM kbase/sdkbase2:python

COPY . /kb/module
WORKDIR /kb/module

RUN mkdir -p /kb/module/work
`

const configTemplate = `module-name: %s
module-description: A new KBase module
service-language: python
module-version: 0.0.1
owners: []
docker_image_name: test/%s:latest
`

const testTemplate = `import unittest


class TestModule(unittest.TestCase):

    def test_status(self):
        self.assertTrue(True)


if __name__ == '__main__':
    unittest.main()
`

const gitignoreTemplate = `build/
`

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Options configures the scaffolding of a new module directory.
type Options struct {
	Name    string
	Dir     string
	InitGit bool
	DryRun  bool
}

// Scaffold creates the skeleton of a new module: Dockerfile, kbase.yaml,
// a test directory with a starter test, the build/work directory, and
// optionally a git repository with an initial commit.
func Scaffold(opts Options) error {
	if !moduleNamePattern.MatchString(opts.Name) {
		return fmt.Errorf("invalid module name %q: must start with a letter and contain only letters, digits, and underscores", opts.Name)
	}

	parentDir := opts.Dir
	if parentDir == "" {
		parentDir = "."
	}
	moduleDir := filepath.Join(parentDir, opts.Name)

	if _, err := os.Stat(moduleDir); err == nil {
		return fmt.Errorf("module directory already exists: %s", moduleDir)
	}

	files := moduleFiles(opts.Name)

	if opts.DryRun {
		for _, relPath := range sortedPaths(files) {
			fmt.Printf("DRY RUN: Would create %s\n", filepath.Join(moduleDir, relPath))
		}
		if opts.InitGit {
			fmt.Printf("DRY RUN: Would initialize git repository in %s\n", moduleDir)
		}
		return nil
	}

	for _, relPath := range sortedPaths(files) {
		fullPath := filepath.Join(moduleDir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
		}
		if err := os.WriteFile(fullPath, []byte(files[relPath]), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", relPath, err)
		}
		slog.Debug("Created file", "path", fullPath)
	}

	if opts.InitGit {
		if err := initGitRepo(moduleDir); err != nil {
			return fmt.Errorf("failed to initialize git repository: %w", err)
		}
	}

	slog.Info("Module scaffolded", "name", opts.Name, "directory", moduleDir)
	return nil
}

// moduleFiles returns the skeleton file set keyed by path relative to the
// module root.
func moduleFiles(name string) map[string]string {
	files := map[string]string{
		"Dockerfile": dockerfileTemplate,
		"kbase.yaml": fmt.Sprintf(configTemplate, name, name),
		".gitignore": gitignoreTemplate,
	}
	files[filepath.Join("test", "__init__.py")] = ""
	files[filepath.Join("test", fmt.Sprintf("test_%s.py", name))] = testTemplate
	files[filepath.Join("build", "work", ".gitkeep")] = ""
	return files
}

// sortedPaths keeps dry-run output and error reporting predictable.
func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// initGitRepo initializes a git repository in the module directory and
// creates the initial commit.
func initGitRepo(moduleDir string) error {
	repo, err := git.PlainInit(moduleDir, false)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if _, err := worktree.Add("."); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	commit, err := worktree.Commit("Initial module scaffold", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "kbsdk",
			Email: "noreply@kbase.us",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create initial commit: %w", err)
	}

	slog.Debug("Created initial commit", "hash", commit)
	return nil
}
