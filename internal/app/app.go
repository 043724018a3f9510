package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dockerengine "kbsdk/internal/engine"
	"kbsdk/internal/parser"
	"kbsdk/internal/runner"
	"kbsdk/internal/scaffolder"
	pkgengine "kbsdk/pkg/engine"
)

const (
	// Color codes for console output
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// RunTests is the facade over the test workflow: parse the module config,
// then build the image if stale and run the module's unit tests inside a
// container.
func RunTests(configPath string, opts runner.Options) error {
	runID := uuid.New().String()
	logger := slog.With("runId", runID)
	logger.Info("Starting test run", "config", configPath, "forceBuild", opts.ForceBuild, "dryRun", opts.DryRun)

	cfg, err := parser.Parse(configPath)
	if err != nil {
		return fmt.Errorf("module config parsing failed: %w", err)
	}
	logger.Info("Module config parsed", "module", cfg.ModuleName, "image", cfg.DockerImageName)

	if opts.DryRun {
		printTestDryRun(cfg.DockerImageName, opts)
		return nil
	}

	fmt.Printf("%s🧪 Running tests for module '%s'%s\n", ColorCyan, cfg.ModuleName, ColorReset)

	containerEngine, err := dockerengine.NewDockerEngine()
	if err != nil {
		return fmt.Errorf("failed to create container engine: %w", err)
	}

	start := time.Now()
	testRunner := runner.NewTestRunner(containerEngine)
	if err := testRunner.Run(context.Background(), cfg, opts); err != nil {
		return err
	}

	fmt.Printf("%s✅ Test run finished for module '%s'%s\n", ColorGreen, cfg.ModuleName, ColorReset)
	logger.Info("Test run finished", "module", cfg.ModuleName, "elapsed", time.Since(start).Seconds())
	return nil
}

// printTestDryRun shows the engine invocations a real run would make.
func printTestDryRun(imageName string, opts runner.Options) {
	fmt.Printf("%s🔍 DRY RUN MODE - No containers will be built or run%s\n", ColorYellow, ColorReset)

	buildOpts := pkgengine.BuildOptions{ContextDir: ".", Tag: imageName, NoCache: opts.NoCache}
	fmt.Printf("%s🔍 DRY RUN: Would build image (if stale) with: %s%s\n",
		ColorYellow, dockerengine.CommandLine(dockerengine.BuildCommandArgs(buildOpts)), ColorReset)

	fmt.Printf("%s🔍 DRY RUN: Would run tests in container '%s' with: %s%s\n",
		ColorYellow, imageName, runner.TestCommand(opts.SingleTest), ColorReset)
}

// InitModule scaffolds a new module directory.
func InitModule(name, dir string, initGit, isDryRun bool) error {
	slog.Info("Scaffolding new module", "name", name, "dir", dir, "git", initGit, "dryRun", isDryRun)

	if err := scaffolder.Scaffold(scaffolder.Options{
		Name:    name,
		Dir:     dir,
		InitGit: initGit,
		DryRun:  isDryRun,
	}); err != nil {
		return fmt.Errorf("module scaffolding failed: %w", err)
	}

	if isDryRun {
		fmt.Printf("%s✅ Scaffolding simulation completed successfully%s\n", ColorGreen, ColorReset)
	} else {
		fmt.Printf("%s✅ Module '%s' is ready. Run `kbsdk test` inside it to run its tests.%s\n", ColorGreen, name, ColorReset)
	}
	return nil
}

// Validate parses the module config and reports what it found.
func Validate(configPath string) error {
	cfg, err := parser.Parse(configPath)
	if err != nil {
		return fmt.Errorf("module config validation failed: %w", err)
	}

	fmt.Printf("%s✅ %s is valid%s\n", ColorGreen, configPath, ColorReset)
	fmt.Printf("  module:  %s\n", cfg.ModuleName)
	fmt.Printf("  image:   %s\n", cfg.DockerImageName)
	if cfg.ModuleVersion != "" {
		fmt.Printf("  version: %s\n", cfg.ModuleVersion)
	}
	slog.Info("Module config validated", "module", cfg.ModuleName, "image", cfg.DockerImageName)
	return nil
}
