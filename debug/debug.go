package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

type debug struct {
	Diff    bool `env:"DOCTRACK_DEBUG_DIFF"`
	Store   bool `env:"DOCTRACK_DEBUG_STORE"`
	Resolve bool `env:"DOCTRACK_DEBUG_RESOLVE"`
	Track   bool `env:"DOCTRACK_DEBUG_TRACK"`
}

var d *debug

func init() {
	d = &debug{}
	if err := env.Parse(d); err != nil {
		fmt.Fprintf(os.Stderr, "doctrack: ignoring debug settings: %v\n", err)
		d = &debug{}
	}
}

func Diff() bool {
	return d.Diff
}
func Store() bool {
	return d.Store
}
func Resolve() bool {
	return d.Resolve
}
func Track() bool {
	return d.Track
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
