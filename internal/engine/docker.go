package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"

	"github.com/docker/docker/client"

	"kbsdk/pkg/engine"
)

// Binary is the container engine executable expected on PATH.
const Binary = "docker"

// DockerEngine implements the ContainerEngine interface. Image lookups go
// through the Docker SDK client; build and run shell out to the docker CLI
// so that the exact invocations can be logged and their output streamed.
type DockerEngine struct {
	client *client.Client
}

// NewDockerEngine creates a new DockerEngine instance using client.FromEnv.
// The client is lazy and does not contact the daemon until first use.
func NewDockerEngine() (*DockerEngine, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &DockerEngine{
		client: dockerClient,
	}, nil
}

// ImageExists reports whether an image with the given name is present in the
// daemon. A missing image is not an error.
func (d *DockerEngine) ImageExists(ctx context.Context, name string) (bool, error) {
	_, _, err := d.client.ImageInspectWithRaw(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			slog.Debug("Docker image not found", "image", name)
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect image %s: %w", name, err)
	}
	return true, nil
}

// BuildImage starts `docker build` and returns a stream of its merged
// stdout/stderr.
func (d *DockerEngine) BuildImage(ctx context.Context, opts engine.BuildOptions) (io.ReadCloser, error) {
	args := buildArgs(opts)
	cmd := exec.CommandContext(ctx, Binary, args...)
	reader, err := startStreaming(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start image build: %w", err)
	}
	return reader, nil
}

// RunContainer starts `docker run` and returns a stream of its merged
// stdout/stderr.
func (d *DockerEngine) RunContainer(ctx context.Context, opts engine.RunOptions) (io.ReadCloser, error) {
	args := runArgs(opts)
	cmd := exec.CommandContext(ctx, Binary, args...)
	reader, err := startStreaming(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}
	return reader, nil
}

// CommandLine returns the full command line for an invocation, for logging
// and dry-run display.
func CommandLine(args []string) string {
	line := Binary
	for _, arg := range args {
		line += " " + arg
	}
	return line
}

// BuildCommandArgs exposes the build argv for logging.
func BuildCommandArgs(opts engine.BuildOptions) []string {
	return buildArgs(opts)
}

// RunCommandArgs exposes the run argv for logging.
func RunCommandArgs(opts engine.RunOptions) []string {
	return runArgs(opts)
}

func buildArgs(opts engine.BuildOptions) []string {
	args := []string{"build", opts.ContextDir, "--tag", opts.Tag}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	return args
}

func runArgs(opts engine.RunOptions) []string {
	args := []string{"run"}

	// Sort mounts so the argv is deterministic.
	hostPaths := make([]string, 0, len(opts.VolumeMounts))
	for hostPath := range opts.VolumeMounts {
		hostPaths = append(hostPaths, hostPath)
	}
	sort.Strings(hostPaths)
	for _, hostPath := range hostPaths {
		args = append(args, fmt.Sprintf("--volume=%s:%s", hostPath, opts.VolumeMounts[hostPath]))
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return args
}

// startStreaming starts the command and returns a reader over its merged
// stdout/stderr. The reader's final error (in place of io.EOF) carries the
// command's exit status.
func startStreaming(cmd *exec.Cmd) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, err
	}

	go func() {
		pw.CloseWithError(cmd.Wait())
	}()

	return pr, nil
}
