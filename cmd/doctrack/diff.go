package main

import (
	"fmt"

	"github.com/signadot/doctrack/encode"
	"github.com/signadot/doctrack/libdiff"
	"github.com/signadot/doctrack/meta"
	"github.com/signadot/doctrack/snap"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.ID != "" && cfg.Type != "" {
		return fmt.Errorf("%w: at most one of -id and -type may be given", cli.ErrUsage)
	}
	id, err := cfg.identifier()
	if err != nil {
		return err
	}
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("%w: only one of the documents may be read from stdin", cli.ErrUsage)
	}
	maps := cfg.mapPaths()
	baseline, err := cfg.readDoc(cc, args[0], maps)
	if err != nil {
		return err
	}
	current, err := cfg.readDoc(cc, args[1], maps)
	if err != nil {
		return err
	}
	theLog.Debug("diffing", "baseline", args[0], "current", args[1], "identifier", id)
	patch := libdiff.Compute(baseline, current, id)
	if emptyPatch(baseline, current, patch) {
		return nil
	}
	if err := encode.Encode(patch, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// identifier returns the field to exclude from the patch.
func (cfg *DiffConfig) identifier() (string, error) {
	if cfg.Type == "" {
		return cfg.ID, nil
	}
	t, err := cfg.table()
	if err != nil {
		return "", err
	}
	return meta.NewResolver(t).ResolveIdentifierField(cfg.Type)
}

// emptyPatch reports whether patch, computed from baseline to current,
// changes nothing. A root replaced by an empty container of another shape
// is a change.
func emptyPatch(baseline, current, patch *snap.Node) bool {
	return baseline.Type == current.Type && patch.Type.IsKeyed() && patch.IsEmpty()
}
