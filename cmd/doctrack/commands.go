package main

import (
	"time"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{Indent: 2}
	if err := cfg.loadEnv(); err != nil {
		panic(err)
	}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y (default from file suffix)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "doctrack").
		WithSynopsis("doctrack [opts] command [opts]").
		WithDescription("doctrack computes partial update patches between document snapshots.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return doctrackMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			WatchCommand(cfg),
			TypesCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-id field | -type T] [-maps paths] baseline current").
		WithDescription(diffDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

const diffDescription = `diff prints the patch which updates baseline to current.

The identifier field, given with -id or resolved from the descriptor table
with -type, is never part of the patch. Mappings listed with -maps, as dotted
paths such as 'TypeQuantities,Category.Seller.ProductSells', are diffed as
maps: their entries are compared one by one and map entries which are
objects are replaced in full.

diff exits with status 1 when the patch is not empty.`

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WatchConfig{MainConfig: mainCfg, Every: time.Second, Lim: -1}
	everyOpt := &cli.Opt{
		Name:        "every",
		Description: "interval between runs (default 1s)",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.mkEvery()), "(duration)"),
	}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, everyOpt)
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithAliases("w").
		WithSynopsis("watch -type T [-every 1s] [-n N] [-gops] <cmd>").
		WithDescription("watch runs a command periodically and prints the patches between its outputs").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return watch(cfg, cc, args)
		})
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Types, "types").
		WithAliases("t").
		WithSynopsis("types [-type T]").
		WithDescription("list the descriptor table or resolve the identifier field of one type").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return types(cfg, cc, args)
		})
}
