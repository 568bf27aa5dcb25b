package track

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/signadot/doctrack/meta"
	"github.com/signadot/doctrack/serial"
	"github.com/signadot/doctrack/snap"
	"github.com/signadot/doctrack/store"
)

type Seller struct {
	TotalSells   int
	ProductSells map[string]int
}

type Category struct {
	Title  *string
	Tags   []string
	Seller *Seller
}

type Product struct {
	Key            *string `json:"_key"`
	Title          *string
	Quantity       int
	Tags           []string
	TypeQuantities map[string]int
	Category       *Category
}

type Inventory map[string]any

type Untyped struct {
	Name string
}

func ptr[T any](v T) *T { return &v }

func newTracker(opts ...Option) *Tracker {
	table := meta.NewTable(
		meta.Key("Product", "_key"),
		meta.NoKey("Category"),
	)
	return New(meta.NewResolver(table), opts...)
}

func newProduct() *Product {
	return &Product{
		Key:            ptr("products/1"),
		Title:          ptr("Pen"),
		Quantity:       5,
		Tags:           []string{"Soft", "Hard"},
		TypeQuantities: map[string]int{"Soft": 1},
	}
}

func changes(t *testing.T, tr *Tracker, h store.Handle) string {
	t.Helper()
	p, err := tr.GetChanges(h)
	if err != nil {
		t.Fatal(err)
	}
	return p.JSON()
}

func TestGetChanges(t *testing.T) {
	tests := []struct {
		name   string
		change func(p *Product)
		want   string
	}{
		{"none", func(*Product) {}, `{}`},
		{"scalar", func(p *Product) { p.Quantity = 7 }, `{"Quantity":7}`},
		{"identifier", func(p *Product) { p.Key = ptr("products/2") }, `{}`},
		{"to null", func(p *Product) { p.Title = nil }, `{"Title":null}`},
		{"list element", func(p *Product) { p.Tags[1] = "Medium" }, `{"Tags":["Soft","Medium"]}`},
		{"list append", func(p *Product) { p.Tags = append(p.Tags, "Hard") }, `{"Tags":["Soft","Hard","Hard"]}`},
		{"map value", func(p *Product) { p.TypeQuantities["Soft"] = 2 }, `{"TypeQuantities":{"Soft":2}}`},
		{"map key removed", func(p *Product) { delete(p.TypeQuantities, "Soft") }, `{"TypeQuantities":{"Soft":null}}`},
		{"map to null", func(p *Product) { p.TypeQuantities = nil }, `{"TypeQuantities":null}`},
		{
			"object from null",
			func(p *Product) { p.Category = &Category{Title: ptr("Featured")} },
			`{"Category":{"Title":"Featured","Tags":null,"Seller":null}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker()
			p := newProduct()
			h, err := tr.Track(p)
			if err != nil {
				t.Fatal(err)
			}
			tt.change(p)
			if got := changes(t, tr, h); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetChangesNested(t *testing.T) {
	tr := newTracker()
	p := newProduct()
	p.Category = &Category{Title: ptr("Featured"), Seller: &Seller{TotalSells: 1}}
	h, err := tr.Track(p)
	if err != nil {
		t.Fatal(err)
	}
	p.Category.Seller.TotalSells = 2
	p.Category.Seller.ProductSells = map[string]int{"pen": 2}
	want := `{"Category":{"Seller":{"TotalSells":2,"ProductSells":{"pen":2}}}}`
	if got := changes(t, tr, h); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	p.Category.Seller = nil
	if got := changes(t, tr, h); got != `{"Category":{"Seller":null}}` {
		t.Errorf("got %s", got)
	}
}

func TestPatchIsFreshEachTime(t *testing.T) {
	tr := newTracker()
	p := newProduct()
	h, _ := tr.Track(p)
	p.Quantity = 1
	first, err := tr.GetChanges(h)
	if err != nil {
		t.Fatal(err)
	}
	first.Fields[0] = "mutated"
	if got := changes(t, tr, h); got != `{"Quantity":1}` {
		t.Errorf("got %s", got)
	}
}

func TestNotTracked(t *testing.T) {
	tr := newTracker()
	h := store.NewHandle()
	p, err := tr.GetChanges(h)
	if !errors.Is(err, store.ErrNotTracked) {
		t.Fatalf("expected ErrNotTracked, got %v", err)
	}
	if p != nil {
		t.Errorf("patch returned alongside error: %s", p.JSON())
	}
	if _, err := tr.Baseline(h); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("Baseline: expected ErrNotTracked, got %v", err)
	}
	if err := tr.Refresh(h); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("Refresh: expected ErrNotTracked, got %v", err)
	}
	if err := tr.Retrack(h, snap.FromKeyVals(nil)); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("Retrack: expected ErrNotTracked, got %v", err)
	}
	if _, err := tr.ChangesAgainst(h, snap.FromKeyVals(nil)); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("ChangesAgainst: expected ErrNotTracked, got %v", err)
	}
}

func TestMissingTypeMetadata(t *testing.T) {
	tr := newTracker()
	u := &Untyped{Name: "a"}
	h, err := tr.Track(u)
	if err != nil {
		t.Fatalf("tracking an undescribed type failed: %v", err)
	}
	u.Name = "b"
	p, err := tr.GetChanges(h)
	if !errors.Is(err, meta.ErrMissingTypeMetadata) {
		t.Fatalf("expected ErrMissingTypeMetadata, got %v", err)
	}
	if p != nil {
		t.Errorf("patch returned alongside error: %s", p.JSON())
	}
	var mte *meta.MissingTypeError
	if !errors.As(err, &mte) || mte.Type != "Untyped" {
		t.Errorf("expected MissingTypeError for Untyped, got %v", err)
	}
}

func TestMapRootedEntity(t *testing.T) {
	tr := New(meta.NewResolver(meta.NewTable(meta.Key("Inventory", "_key"))))
	inv := Inventory{"_key": "inventories/1", "pens": 3}
	h, err := tr.Track(inv)
	if err != nil {
		t.Fatal(err)
	}
	inv["_key"] = "999"
	p, err := tr.GetChanges(h)
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != snap.MapType || p.Len() != 0 {
		t.Errorf("identifier kept in patch: %s %s", p.Type, p.JSON())
	}
	inv["pens"] = 4
	if got := changes(t, tr, h); got != `{"pens":4}` {
		t.Errorf("got %s", got)
	}
}

func TestDescribedWithoutIdentifier(t *testing.T) {
	tr := newTracker(WithTypeNamer(func(any) string { return "Category" }))
	c := &Category{Title: ptr("a")}
	h, err := tr.Track(c)
	if err != nil {
		t.Fatal(err)
	}
	c.Title = ptr("b")
	if got := changes(t, tr, h); got != `{"Title":"b"}` {
		t.Errorf("got %s", got)
	}
}

func TestTrackChangesWithBaseline(t *testing.T) {
	tr := newTracker()
	p := newProduct()
	baseline, err := serial.Serialize(p)
	if err != nil {
		t.Fatal(err)
	}
	h, err := tr.TrackChanges(p, baseline)
	if err != nil {
		t.Fatal(err)
	}
	// the tracker keeps its own copy
	baseline.Values[baseline.Index("Quantity")] = snap.FromInt(100)
	if got := changes(t, tr, h); got != `{}` {
		t.Errorf("got %s", got)
	}
	b, err := tr.Baseline(h)
	if err != nil {
		t.Fatal(err)
	}
	b.Values[b.Index("Quantity")] = snap.FromInt(100)
	if got := changes(t, tr, h); got != `{}` {
		t.Errorf("baseline aliased: got %s", got)
	}
}

func TestTrackChangesMalformed(t *testing.T) {
	tr := newTracker()
	bad := &snap.Node{Type: snap.ObjectType, Fields: []string{"a"}}
	if _, err := tr.TrackChanges(newProduct(), bad); !errors.Is(err, snap.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	if _, err := tr.TrackChanges(nil, snap.FromKeyVals(nil)); !errors.Is(err, ErrNilEntity) {
		t.Errorf("expected ErrNilEntity, got %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("failed tracking left %d entries", tr.Len())
	}
}

func TestRefreshAndRetrack(t *testing.T) {
	tr := newTracker()
	p := newProduct()
	h, _ := tr.Track(p)
	p.Quantity = 9
	if err := tr.Refresh(h); err != nil {
		t.Fatal(err)
	}
	if got := changes(t, tr, h); got != `{}` {
		t.Errorf("after refresh got %s", got)
	}
	old := newProduct()
	baseline, _ := serial.Serialize(old)
	if err := tr.Retrack(h, baseline); err != nil {
		t.Fatal(err)
	}
	if got := changes(t, tr, h); got != `{"Quantity":9}` {
		t.Errorf("after retrack got %s", got)
	}
}

func TestChangesAgainst(t *testing.T) {
	tr := newTracker()
	p := newProduct()
	h, _ := tr.Track(p)
	current, _ := serial.Serialize(p)
	current.Values[current.Index("Title")] = snap.FromString("Pencil")
	patch, err := tr.ChangesAgainst(h, current)
	if err != nil {
		t.Fatal(err)
	}
	if got := patch.JSON(); got != `{"Title":"Pencil"}` {
		t.Errorf("got %s", got)
	}
	if _, err := tr.ChangesAgainst(h, &snap.Node{Type: snap.NumberType}); !errors.Is(err, snap.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestUntrackAndClear(t *testing.T) {
	tr := newTracker()
	h1, _ := tr.Track(newProduct())
	h2, _ := tr.Track(newProduct())
	if tr.Len() != 2 {
		t.Fatalf("Len = %d", tr.Len())
	}
	if !tr.Untrack(h1) {
		t.Error("Untrack reported h1 untracked")
	}
	if tr.Untrack(h1) {
		t.Error("second Untrack reported h1 tracked")
	}
	if _, err := tr.GetChanges(h1); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("expected ErrNotTracked, got %v", err)
	}
	tr.Clear()
	if _, err := tr.GetChanges(h2); !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("expected ErrNotTracked after Clear, got %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("Len = %d after Clear", tr.Len())
	}
}

func TestSerializerError(t *testing.T) {
	boom := errors.New("boom")
	fail := false
	tr := newTracker(WithSerializer(serial.Func(func(v any) (*snap.Node, error) {
		if fail {
			return nil, boom
		}
		return serial.Serialize(v)
	})))
	h, err := tr.Track(newProduct())
	if err != nil {
		t.Fatal(err)
	}
	fail = true
	if _, err := tr.GetChanges(h); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if _, err := tr.Track(newProduct()); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestGetChangesMany(t *testing.T) {
	tr := newTracker(WithConcurrency(4), WithShards(8))
	ps := make([]*Product, 50)
	hs := make([]store.Handle, len(ps))
	for i := range ps {
		ps[i] = newProduct()
		h, err := tr.Track(ps[i])
		if err != nil {
			t.Fatal(err)
		}
		hs[i] = h
		if i%2 == 0 {
			ps[i].Quantity = i
		}
	}
	res, err := tr.GetChangesMany(context.Background(), hs)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range res {
		want := `{}`
		if i%2 == 0 {
			want = fmt.Sprintf(`{"Quantity":%d}`, i)
		}
		if got := p.JSON(); got != want {
			t.Errorf("%d: got %s, want %s", i, got, want)
		}
	}

	res, err = tr.GetChangesMany(context.Background(), append(hs, store.NewHandle()))
	if !errors.Is(err, store.ErrNotTracked) {
		t.Errorf("expected ErrNotTracked, got %v", err)
	}
	if res != nil {
		t.Error("partial result returned alongside error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.GetChangesMany(ctx, hs); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConcurrentTracking(t *testing.T) {
	tr := newTracker(WithShards(4))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p := newProduct()
				h, err := tr.Track(p)
				if err != nil {
					t.Error(err)
					return
				}
				p.Quantity = j
				patch, err := tr.GetChanges(h)
				if err != nil {
					t.Error(err)
					return
				}
				if j != 5 && patch.Len() != 1 {
					t.Errorf("got %s", patch.JSON())
				}
				tr.Untrack(h)
			}
		}()
	}
	wg.Wait()
	if tr.Len() != 0 {
		t.Errorf("Len = %d", tr.Len())
	}
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := newTracker(WithLogger(log))
	h, _ := tr.Track(newProduct())
	tr.Untrack(h)
	out := buf.String()
	for _, want := range []string{"msg=tracking", "type=Product", "msg=untracked", "handle=" + h.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q lacks %q", out, want)
		}
	}
}
