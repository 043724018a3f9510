package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kbsdk/internal/app"
	"kbsdk/internal/errors"
	"kbsdk/internal/runner"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "kbsdk",
	Short:   "kbsdk - KBase SDK module development tool",
	Version: version,
	Long: `kbsdk helps KBase module developers scaffold new modules and run their
test suites inside the module's Docker container.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the module's test suite inside its Docker container",
	Long: `Test builds the module's Docker image when it is stale (missing image,
modified Dockerfile, or --build) and then runs the module's unit tests inside
a container with the work directory bind-mounted.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		opts := runner.Options{}
		opts.ForceBuild, _ = cmd.Flags().GetBool("build")
		opts.NoCache, _ = cmd.Flags().GetBool("no-cache")
		opts.SingleTest, _ = cmd.Flags().GetString("test")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

		if err := app.RunTests(file, opts); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init <module-name>",
	Short: "Scaffold a new module directory",
	Long: `Init creates a new module skeleton: Dockerfile, kbase.yaml, a starter
test suite, and the build/work directory, and initializes a git repository
with an initial commit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		noGit, _ := cmd.Flags().GetBool("no-git")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if err := app.InitModule(args[0], dir, !noGit, dryRun); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the module's kbase.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		if err := app.Validate(file); err != nil {
			errors.HandleError(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	testCmd.Flags().StringP("file", "f", "kbase.yaml", "Path to the module config file")
	testCmd.Flags().Bool("build", false, "Force a rebuild of the module image")
	testCmd.Flags().Bool("no-cache", false, "Build the image without the engine's layer cache")
	testCmd.Flags().String("test", "", "Run a single test module instead of discovery (e.g. test_my_module)")
	testCmd.Flags().Bool("dry-run", false, "Print the commands that would run without invoking the container engine")
	rootCmd.AddCommand(testCmd)

	initCmd.Flags().String("dir", ".", "Parent directory for the new module")
	initCmd.Flags().Bool("no-git", false, "Skip git repository initialization")
	initCmd.Flags().Bool("dry-run", false, "Print files that would be created without actually writing them")
	rootCmd.AddCommand(initCmd)

	validateCmd.Flags().StringP("file", "f", "kbase.yaml", "Path to the module config file")
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
