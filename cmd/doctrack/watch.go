package main

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/signadot/doctrack/encode"
	"github.com/signadot/doctrack/meta"
	"github.com/signadot/doctrack/parse"
	"github.com/signadot/doctrack/snap"
	"github.com/signadot/doctrack/store"
	"github.com/signadot/doctrack/track"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: watch requires a command", cli.ErrUsage)
	}
	if cfg.Type == "" {
		return fmt.Errorf("%w: watch requires -type", cli.ErrUsage)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}
	t, err := cfg.table()
	if err != nil {
		return err
	}
	resolver := meta.NewResolver(t)
	// fail before running anything if the type is not described
	if _, err := resolver.ResolveIdentifierField(cfg.Type); err != nil {
		return err
	}
	command := strings.Join(args, " ")
	w := newWatcher(cfg, cc.Out, track.New(resolver, track.WithLogger(theLog)), command)
	defer w.close()

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()
	for i := 0; i != cfg.Lim; i++ {
		if i != 0 {
			<-ticker.C
		}
		d, err := run(command, cfg.Every)
		if err != nil {
			return err
		}
		next, err := parse.Parse(d, cfg.parseOpts("", splitList(cfg.Maps))...)
		if err != nil {
			return fmt.Errorf("error decoding command output: %w", err)
		}
		if _, err := w.observe(next); err != nil {
			return err
		}
	}
	return nil
}

func run(command string, wait time.Duration) ([]byte, error) {
	cmd := exec.Command("sh", "-c", command)
	r, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to create pipe for command %q: %w", command, err)
	}
	cmd.WaitDelay = wait
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %q: %w", command, err)
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("command %q exited with an error: %w", command, err)
	}
	return d, nil
}

// watchedCommand is the entity tracked for a watched command.
type watchedCommand struct {
	Command string
	Type    string
}

func (w *watchedCommand) DocumentType() string { return w.Type }

type watcher struct {
	out     io.Writer
	encOpts []encode.EncodeOption
	tr      *track.Tracker
	entity  *watchedCommand
	h       store.Handle
	count   int
	now     func() time.Time
}

func newWatcher(cfg *WatchConfig, out io.Writer, tr *track.Tracker, command string) *watcher {
	return &watcher{
		out:     out,
		encOpts: cfg.encOpts(out),
		tr:      tr,
		entity:  &watchedCommand{Command: command, Type: cfg.Type},
		now:     time.Now,
	}
}

// observe tracks the first document it is given. Subsequent documents
// are compared with the previous one; a non empty patch is written out and
// the document becomes the new baseline.
func (w *watcher) observe(next *snap.Node) (bool, error) {
	if w.h.IsZero() {
		h, err := w.tr.TrackChanges(w.entity, next)
		if err != nil {
			return false, err
		}
		w.h = h
		return false, nil
	}
	last, err := w.tr.Baseline(w.h)
	if err != nil {
		return false, err
	}
	patch, err := w.tr.ChangesAgainst(w.h, next)
	if err != nil {
		return false, err
	}
	if emptyPatch(last, next, patch) {
		return false, nil
	}
	if w.count > 0 {
		if _, err := io.WriteString(w.out, "---\n"); err != nil {
			return false, fmt.Errorf("unable to write separator: %w", err)
		}
	}
	when := w.now().Format(time.RFC3339Nano)
	if _, err := io.WriteString(w.out, "# difference found at "+when+"\n"); err != nil {
		return false, err
	}
	if err := encode.Encode(patch, w.out, w.encOpts...); err != nil {
		return false, err
	}
	w.count++
	return true, w.tr.Retrack(w.h, next)
}

func (w *watcher) close() {
	if !w.h.IsZero() {
		w.tr.Untrack(w.h)
	}
}
