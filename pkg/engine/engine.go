package engine

import (
	"context"
	"io"
)

// BuildOptions defines the parameters for building a container image.
type BuildOptions struct {
	ContextDir string
	Tag        string
	NoCache    bool
}

// RunOptions defines the parameters for running a container.
type RunOptions struct {
	Image        string
	Command      []string
	VolumeMounts map[string]string
}

// ContainerEngine defines the contract for container operations. Build and
// run return a stream of the merged stdout/stderr of the operation; the
// stream's Close (or the final Read error) reports the operation's exit
// status.
type ContainerEngine interface {
	ImageExists(ctx context.Context, name string) (bool, error)
	BuildImage(ctx context.Context, opts BuildOptions) (io.ReadCloser, error)
	RunContainer(ctx context.Context, opts RunOptions) (io.ReadCloser, error)
}
