package serial

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signadot/doctrack/snap"
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

func ptr[T any](v T) *T { return &v }

func mustSerialize(t *testing.T, v any) *snap.Node {
	t.Helper()
	n, err := Serialize(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Check(n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestSerializeProduct(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "zero",
			v:    &Product{},
			want: `{"_key":null,"Title":null,"Quantity":0,"Tags":null,"TypeQuantities":null,"Category":null}`,
		},
		{
			name: "filled",
			v: Product{
				Key:            ptr("1"),
				Title:          ptr("Pen"),
				Quantity:       5,
				Tags:           []string{"Soft", "Hard"},
				TypeQuantities: map[string]int{"Soft": 1, "Hard": 2},
				Category:       &Category{Title: ptr("Featured")},
			},
			want: `{"_key":"1","Title":"Pen","Quantity":5,"Tags":["Soft","Hard"],"TypeQuantities":{"Hard":2,"Soft":1},"Category":{"Title":"Featured","Tags":null,"Seller":null}}`,
		},
		{
			name: "empty containers",
			v:    &Category{Tags: []string{}, Seller: &Seller{ProductSells: map[string]int{}}},
			want: `{"Title":null,"Tags":[],"Seller":{"TotalSells":0,"ProductSells":{}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustSerialize(t, tt.v).JSON(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSerializeShapes(t *testing.T) {
	n := mustSerialize(t, Product{TypeQuantities: map[string]int{"a": 1}, Tags: []string{"x"}, Category: &Category{}})
	for field, want := range map[string]snap.Type{
		"TypeQuantities": snap.MapType,
		"Tags":           snap.ListType,
		"Category":       snap.ObjectType,
		"Quantity":       snap.NumberType,
		"Title":          snap.NullType,
	} {
		if got := snap.Get(n, field).Type; got != want {
			t.Errorf("%s is %s, want %s", field, got, want)
		}
	}
}

type Base struct {
	ID      string `json:"id"`
	Created time.Time
}

type withEmbedded struct {
	Base
	Name    string
	Skipped string `json:"-"`
	Renamed string `json:"other,omitempty"`
	hidden  int
	Any     any
	Array   [2]int
	Big     uint64
}

func TestSerializeStructFeatures(t *testing.T) {
	v := withEmbedded{
		Base:    Base{ID: "x", Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		Name:    "n",
		Skipped: "s",
		Renamed: "r",
		hidden:  1,
		Array:   [2]int{1, 2},
		Big:     1<<64 - 1,
	}
	got := mustSerialize(t, v).JSON()
	want := `{"id":"x","Created":"2024-01-02T03:04:05Z","Name":"n","other":"r","Any":null,"Array":[1,2],"Big":18446744073709551615}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

type node struct {
	Next *node
}

type conflict struct {
	A string `json:"x"`
	B string `json:"x"`
}

func TestSerializeErrors(t *testing.T) {
	cyc := &node{}
	cyc.Next = cyc
	tests := []struct {
		name string
		v    any
		msg  string
	}{
		{"cycle", cyc, "circular reference"},
		{"chan", struct{ C chan int }{C: make(chan int)}, "unsupported type"},
		{"int keys", map[int]string{1: "a"}, "map keys must be strings"},
		{"conflict", conflict{}, "field name conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Serialize(tt.v)
			var me *MarshalError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MarshalError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestSerializeSharedPointerIsNotACycle(t *testing.T) {
	s := &Seller{TotalSells: 1}
	v := struct{ A, B *Seller }{A: s, B: s}
	if got := mustSerialize(t, v).JSON(); got != `{"A":{"TotalSells":1,"ProductSells":null},"B":{"TotalSells":1,"ProductSells":null}}` {
		t.Errorf("got %s", got)
	}
}

type selfEmbedding struct {
	*selfEmbedding
	X int
}

func TestSerializeEmbeddedPointerCycle(t *testing.T) {
	s := &selfEmbedding{X: 1}
	s.selfEmbedding = s
	_, err := Serialize(s)
	var me *MarshalError
	if !errors.As(err, &me) || !strings.Contains(err.Error(), "circular reference") {
		t.Fatalf("expected a circular reference error, got %v", err)
	}
}

func TestSerializeEmbeddedPointer(t *testing.T) {
	v := struct {
		*Seller
		Name string
	}{Seller: &Seller{TotalSells: 2}, Name: "x"}
	if got := mustSerialize(t, v).JSON(); got != `{"TotalSells":2,"ProductSells":null,"Name":"x"}` {
		t.Errorf("got %s", got)
	}
}

type inner struct {
	X int
}

type outer struct {
	In inner
	P  *inner
}

func TestSerializeFirstFieldAliasIsNotACycle(t *testing.T) {
	o := &outer{In: inner{X: 1}}
	o.P = &o.In
	if got := mustSerialize(t, o).JSON(); got != `{"In":{"X":1},"P":{"X":1}}` {
		t.Errorf("got %s", got)
	}
}

type typedDoc struct{}

func (typedDoc) DocumentType() string { return "Doc" }

func TestTypeName(t *testing.T) {
	var p **Product
	for want, v := range map[string]any{
		"Product": &Product{},
		"Seller":  Seller{},
		"Doc":     typedDoc{},
		"":        nil,
	} {
		if got := TypeName(v); got != want {
			t.Errorf("TypeName(%T) = %q, want %q", v, got, want)
		}
	}
	if got := TypeName(p); got != "Product" {
		t.Errorf("TypeName(**Product) = %q", got)
	}
	var td *typedDoc
	if got := TypeName(td); got != "typedDoc" {
		t.Errorf("TypeName((*typedDoc)(nil)) = %q", got)
	}
}
