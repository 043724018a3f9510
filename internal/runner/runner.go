package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	dockerengine "kbsdk/internal/engine"
	apperrors "kbsdk/internal/errors"
	"kbsdk/pkg/engine"
	"kbsdk/pkg/module"
)

const (
	// ContainerWorkDir is where the module work directory is mounted inside
	// the test container.
	ContainerWorkDir = "/kb/module/work"

	// testShell wraps the test command inside the container.
	testShell = "bash"
)

// Options holds the command-line switches for a test run.
type Options struct {
	ForceBuild bool
	NoCache    bool
	SingleTest string
	DryRun     bool
}

// TestRunner boots the module's container image and runs its unit tests
// inside it.
type TestRunner struct {
	engine   engine.ContainerEngine
	workDir  string
	lookPath func(string) (string, error)
}

// NewTestRunner creates a TestRunner operating on the current directory.
func NewTestRunner(containerEngine engine.ContainerEngine) *TestRunner {
	return &TestRunner{
		engine:   containerEngine,
		workDir:  ".",
		lookPath: exec.LookPath,
	}
}

// Run builds the module image if it is stale and then executes the module's
// unit tests inside a container. Test failures inside the container are
// streamed to the log but do not fail the run; only orchestration errors are
// returned.
func (r *TestRunner) Run(ctx context.Context, cfg *module.Config, opts Options) error {
	start := time.Now()

	if _, err := r.lookPath(dockerengine.Binary); err != nil {
		return apperrors.NewEngineNotFoundError(
			"The `docker` command was not found",
			"Docker is not installed or not on PATH",
			"Install Docker before running tests: https://docs.docker.com/install/",
			err,
		)
	}

	if err := r.buildImage(ctx, cfg, opts); err != nil {
		return err
	}

	if err := r.runUnitTests(ctx, cfg, opts); err != nil {
		return err
	}

	slog.Debug("Ran tests", "elapsed", time.Since(start).Seconds())
	return nil
}

// buildImage builds the module image if necessary. It builds when any of
// these conditions are met: the image does not exist yet, the Dockerfile has
// been modified since the previous run, or the force-build option is set.
func (r *TestRunner) buildImage(ctx context.Context, cfg *module.Config, opts Options) error {
	exists, err := r.engine.ImageExists(ctx, cfg.DockerImageName)
	if err != nil {
		return fmt.Errorf("failed to look up image %s: %w", cfg.DockerImageName, err)
	}

	modified, err := dockerfileModified(r.workDir)
	if err != nil {
		return err
	}
	slog.Debug("Checked Dockerfile against previous run", "modified", modified)

	if !modified && exists && !opts.ForceBuild {
		slog.Debug("Image is up to date, skipping build", "image", cfg.DockerImageName)
		return nil
	}

	buildOpts := engine.BuildOptions{
		ContextDir: r.workDir,
		Tag:        cfg.DockerImageName,
		NoCache:    opts.NoCache,
	}
	slog.Info("Building docker image", "command", dockerengine.CommandLine(dockerengine.BuildCommandArgs(buildOpts)))

	reader, err := r.engine.BuildImage(ctx, buildOpts)
	if err != nil {
		return fmt.Errorf("failed to start image build: %w", err)
	}
	streamLines(reader, slog.LevelDebug)
	return nil
}

// runUnitTests runs the module's unit tests inside a container with the work
// directory bind-mounted.
func (r *TestRunner) runUnitTests(ctx context.Context, cfg *module.Config, opts Options) error {
	slog.Debug("Calling unit tests")

	absWorkDir, err := filepath.Abs(r.workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve module directory: %w", err)
	}
	hostVol := filepath.Join(absWorkDir, "build", "work")

	runOpts := engine.RunOptions{
		Image:        cfg.DockerImageName,
		Command:      []string{testShell, "-c", TestCommand(opts.SingleTest)},
		VolumeMounts: map[string]string{hostVol: ContainerWorkDir},
	}
	slog.Debug("Running unit tests", "command", dockerengine.CommandLine(dockerengine.RunCommandArgs(runOpts)))

	reader, err := r.engine.RunContainer(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("failed to run test container: %w", err)
	}
	streamLines(reader, slog.LevelInfo)
	return nil
}

// TestCommand returns the unittest invocation executed inside the container.
// An empty singleTest selects test discovery.
func TestCommand(singleTest string) string {
	testCmd := "python -m unittest"
	if singleTest != "" {
		// Don't make them type the test package name
		testCmd += " test." + singleTest
	} else {
		testCmd += " discover test"
	}
	return testCmd
}

// streamLines logs the reader's output line by line at the given level. A
// non-zero subprocess exit surfaces as the stream's final error and is
// logged, not returned.
func streamLines(reader io.ReadCloser, level slog.Level) {
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		slog.Log(context.Background(), level, line)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Command exited with error", "error", err)
	}
}
