package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/signadot/doctrack/snap"

	"github.com/caarlos0/env/v11"
)

func TestEnvSwitches(t *testing.T) {
	t.Setenv("DOCTRACK_DEBUG_DIFF", "true")
	t.Setenv("DOCTRACK_DEBUG_STORE", "0")
	got := &debug{}
	if err := env.Parse(got); err != nil {
		t.Fatal(err)
	}
	if !got.Diff || got.Store || got.Resolve {
		t.Errorf("unexpected switches %+v", got)
	}
	t.Setenv("DOCTRACK_DEBUG_TRACK", "maybe")
	if err := env.Parse(&debug{}); err == nil {
		t.Error("expected an error for a non boolean switch")
	}
}

func TestLogfNodes(t *testing.T) {
	buf := &bytes.Buffer{}
	logOut = buf
	defer func() { logOut = os.Stderr }()
	n := snap.FromKeyVals([]snap.KeyVal{{Key: "a", Val: snap.FromInt(1)}})
	Logf("%s then %v\n", n.JSON(), n)
	if got, want := buf.String(), `{"a":1} then {"a":1}`+"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
