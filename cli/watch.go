package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/bestman-robotics/robot-description/config"
	"github.com/bestman-robotics/robot-description/logging"
	"github.com/bestman-robotics/robot-description/referenceframe/urdf"
)

// WatchAction validates a description and validates it again every time it is written, until
// interrupted.
func WatchAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	st := stateFrom(c)
	return watchFile(ctx, c.Args().First(), st.cfg, st.logger.Sublogger("watch"), c.App.Writer, nil)
}

// watchFile checks path once and then after every change until ctx is done. The directory is
// watched rather than the file so that editors replacing the file are noticed. When results is
// non-nil it receives the outcome of each check.
func watchFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	logger logging.Logger,
	w io.Writer,
	results chan<- error,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer func() {
		//nolint:errcheck
		watcher.Close()
	}()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}

	check := func() {
		err := checkFile(path, cfg, w)
		if err != nil {
			logger.Warnw("description is invalid", "file", path, "error", err)
		}
		if results != nil {
			select {
			case results <- err:
			case <-ctx.Done():
			}
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Infow("reloading", "file", path, "op", event.Op.String())
				check()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", "error", err)
		}
	}
}

// checkFile loads and lints one file, printing a status line and any lint findings.
func checkFile(path string, cfg *config.Config, w io.Writer) error {
	tree, err := urdf.ParseModelXMLFile(path, "")
	if err != nil {
		printf(w, "%s %s: %v\n", failMark("FAIL"), path, err)
		return err
	}
	printf(w, "%s %s: robot %q, %d links, %d joints, %d DoF\n",
		okMark("OK"), path, tree.Name(), len(tree.Links()), len(tree.Joints()), tree.DoF())
	for _, finding := range multierr.Errors(tree.Lint(cfg.LintOptions())) {
		printf(w, "  %s %v\n", warnMark("warning:"), finding)
	}
	return nil
}
