package main

import (
	"fmt"

	"github.com/signadot/doctrack/encode"
	"github.com/signadot/doctrack/meta"
	"github.com/signadot/doctrack/snap"

	"github.com/scott-cotton/cli"
)

func types(cfg *TypesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Types.Parse(cc, args)
	if err != nil {
		cfg.Types.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: types takes no args, got %v", cli.ErrUsage, args)
	}
	t, err := cfg.table()
	if err != nil {
		return err
	}
	node, err := describe(t, cfg.Type)
	if err != nil {
		return err
	}
	return encode.Encode(node, cc.Out, cfg.encOpts(cc.Out)...)
}

// describe returns the identifier field of typ, or the map of all described
// types to their identifier fields when typ is empty. Types without an
// identifier field map to null.
func describe(t *meta.Table, typ string) (*snap.Node, error) {
	r := meta.NewResolver(t)
	if typ != "" {
		id, err := r.ResolveIdentifierField(typ)
		if err != nil {
			return nil, err
		}
		return identifierNode(id), nil
	}
	names := t.Types()
	kvs := make([]snap.KeyVal, 0, len(names))
	for _, name := range names {
		id, err := r.ResolveIdentifierField(name)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, snap.KeyVal{Key: name, Val: identifierNode(id)})
	}
	return snap.MapFromKeyVals(kvs), nil
}

func identifierNode(id string) *snap.Node {
	if id == "" {
		return snap.Null()
	}
	return snap.FromString(id)
}
