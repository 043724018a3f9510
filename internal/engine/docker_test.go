package engine

import (
	"bufio"
	"io"
	"os/exec"
	"reflect"
	"testing"

	"kbsdk/pkg/engine"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts engine.BuildOptions
		want []string
	}{
		{
			name: "plain build",
			opts: engine.BuildOptions{ContextDir: ".", Tag: "test/my_module:latest"},
			want: []string{"build", ".", "--tag", "test/my_module:latest"},
		},
		{
			name: "build without cache",
			opts: engine.BuildOptions{ContextDir: ".", Tag: "test/my_module:latest", NoCache: true},
			want: []string{"build", ".", "--tag", "test/my_module:latest", "--no-cache"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildArgs(tt.opts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunArgs(t *testing.T) {
	opts := engine.RunOptions{
		Image:   "test/my_module:latest",
		Command: []string{"bash", "-c", "python -m unittest discover test"},
		VolumeMounts: map[string]string{
			"/home/dev/my_module/build/work": "/kb/module/work",
		},
	}

	want := []string{
		"run",
		"--volume=/home/dev/my_module/build/work:/kb/module/work",
		"test/my_module:latest",
		"bash", "-c", "python -m unittest discover test",
	}

	if got := runArgs(opts); !reflect.DeepEqual(got, want) {
		t.Errorf("runArgs() = %v, want %v", got, want)
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine([]string{"build", ".", "--tag", "x"})
	want := "docker build . --tag x"
	if got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}

func TestStartStreaming_MergesOutput(t *testing.T) {
	cmd := exec.Command("sh", "-c", "echo out; echo err 1>&2")
	reader, err := startStreaming(cmd)
	if err != nil {
		t.Fatalf("startStreaming failed: %v", err)
	}
	defer reader.Close()

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Unexpected scan error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines of merged output, got %v", lines)
	}
}

func TestStartStreaming_ReportsExitStatus(t *testing.T) {
	cmd := exec.Command("sh", "-c", "echo failing; exit 3")
	reader, err := startStreaming(cmd)
	if err != nil {
		t.Fatalf("startStreaming failed: %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err == nil {
		t.Fatal("Expected the stream to report the non-zero exit status")
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("Expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("Expected exit code 3, got %d", exitErr.ExitCode())
	}
	if len(data) == 0 {
		t.Error("Expected output before the failure to be readable")
	}
}

func TestNewDockerEngine(t *testing.T) {
	// The client is lazy, so construction should succeed without a daemon.
	if _, err := NewDockerEngine(); err != nil {
		t.Fatalf("NewDockerEngine() failed: %v", err)
	}
}
