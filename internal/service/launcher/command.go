package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
	"github.com/cerebriumai/cerebrium-launcher/internal/service/installer"
)

const (
	// failureExitCode is reported when the launcher itself fails or the
	// child terminates without a usable exit status.
	failureExitCode = 1
	// interruptExitCode follows the shell convention of 128+SIGINT.
	interruptExitCode = 130
)

// Options are inputs accepted by the launcher entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Args are passed to the managed binary verbatim.
	Args []string
}

// Run makes sure the managed binary is installed and current, then executes
// it with the given arguments. The returned code is what the whole process
// should exit with: the child's own exit code on a clean run, 130 when the
// run was interrupted, 1 on any launcher failure.
func Run(ctx context.Context, opts *Options) (int, error) {
	ctx = logger.WithName(ctx, "launcher")

	svc, err := installer.NewFromConfigPath(opts.ConfigPath)
	if err != nil {
		return failureExitCode, err
	}

	if err = svc.Ensure(ctx, false); err != nil {
		if errors.Is(err, context.Canceled) {
			return interruptExitCode, err
		}

		return failureExitCode, err
	}

	return execute(ctx, svc.BinaryPath(), opts.Args)
}

// execute runs the managed binary with inherited standard streams and maps
// its termination to an exit code. The child is intentionally not killed on
// context cancellation: an interactive SIGINT reaches the whole foreground
// process group, so the child receives it directly and decides for itself
// how to shut down.
func execute(ctx context.Context, binaryPath string, args []string) (int, error) {
	logger.DebugKV(ctx, "Executing managed binary", "path", binaryPath, "args", args)

	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The binary never started.
		return failureExitCode, err
	}

	code := exitErr.ExitCode()
	if code >= 0 {
		return code, nil
	}

	// Killed by a signal. When our own context was cancelled the run was
	// interrupted by the user.
	if ctx.Err() != nil {
		return interruptExitCode, nil
	}

	return failureExitCode, nil
}
