package scanner

import (
	"context"
	"io"

	"golang.org/x/text/transform"
)

// Stream runs "<targetPath> /ecns" and copies its decoded output to stdout and
// stderr as it arrives, without parsing it. The returned error is a
// *LaunchError when the tool could not be started or timed out, and an
// *exec.ExitError when it exited non-zero.
func (r *Runner) Stream(ctx context.Context, targetPath string, mode OSMode, stdout, stderr io.Writer) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	outW := transform.NewWriter(stdout, Encoding(mode).NewDecoder())
	errW := transform.NewWriter(stderr, Encoding(mode).NewDecoder())

	cmd := r.command(ctx, targetPath)
	cmd.Stdout = outW
	cmd.Stderr = errW

	err := cmd.Run()
	outW.Close()
	errW.Close()

	if err == nil {
		return nil
	}
	if _, launchErr := classify(ctx, targetPath, err); launchErr != nil {
		return launchErr
	}
	return err
}
