package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/signadot/doctrack/encode"
	"github.com/signadot/doctrack/format"
	"github.com/signadot/doctrack/meta"
	"github.com/signadot/doctrack/parse"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	WireOut bool   `cli:"name=wire desc='output in compact format'"`
	Indent  int    `cli:"name=indent desc='spaces per indentation level of json output (default 2)'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log debug messages'"`
	Table   string `cli:"name=types desc='descriptor table file (default $DOCTRACK_TYPES)'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

type envConfig struct {
	Table string `env:"DOCTRACK_TYPES"`
}

func (cfg *MainConfig) loadEnv() error {
	ec := &envConfig{}
	if err := env.Parse(ec); err != nil {
		return err
	}
	cfg.Table = ec.Table
	return nil
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat returns the format of the input at path: the format given on
// the command line if any, else the one implied by the path suffix.
func (cfg *MainConfig) inFormat(path string) format.Format {
	switch {
	case cfg.InFormat != nil:
		return *cfg.InFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.J:
		return format.JSONFormat
	}
	return format.FromPath(path)
}

func (cfg *MainConfig) parseOpts(path string, maps []string) []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseFormat(cfg.inFormat(path)),
		parse.MapsAt(maps...),
	}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var fmt format.Format
	switch {
	case cfg.Y:
		fmt = format.YAMLFormat
	case cfg.J:
		fmt = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		fmt = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(fmt),
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.Indent > 0 {
		res = append(res, encode.EncodeIndent(cfg.Indent))
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			colorsSet = opt.Value != nil
			break
		}
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// table loads the descriptor table named by -types. Without one, the
// table is empty and every type is undescribed.
func (cfg *MainConfig) table() (*meta.Table, error) {
	if cfg.Table == "" {
		return meta.NewTable(), nil
	}
	f, err := os.Open(cfg.Table)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := meta.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Table, err)
	}
	return t, nil
}

type DiffConfig struct {
	*MainConfig
	ID   string `cli:"name=id desc='identifier field to exclude'"`
	Type string `cli:"name=type desc='resolve the identifier field of this type'"`
	Maps string `cli:"name=maps desc='comma separated dotted paths of maps'"`

	Diff *cli.Command
}

func (cfg *DiffConfig) mapPaths() []string {
	return splitList(cfg.Maps)
}

type WatchConfig struct {
	*MainConfig
	Type  string `cli:"name=type desc='document type of the command output'"`
	Maps  string `cli:"name=maps desc='comma separated dotted paths of maps'"`
	Lim   int    `cli:"name=n desc='max number of runs'"`
	Gops  bool   `cli:"name=gops desc='start a gops agent'"`
	Every time.Duration

	Watch *cli.Command
}

func (cfg *WatchConfig) mkEvery() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: -every must be positive", cli.ErrUsage)
		}
		cfg.Every = d
		return d, nil
	}
}

type TypesConfig struct {
	*MainConfig
	Type string `cli:"name=type desc='resolve the identifier field of this type'"`

	Types *cli.Command
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
