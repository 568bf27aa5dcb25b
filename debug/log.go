package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/doctrack/snap"
)

var logOut io.Writer = os.Stderr

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *snap.Node:
			args[i] = x.JSON()
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(logOut, msg, args...)
}
