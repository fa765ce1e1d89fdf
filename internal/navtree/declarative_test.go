package navtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

const gettingStartedYAML = `
mySidebar:
  - type: category
    label: Getting Started
    items:
      - type: doc
        id: intro
        label: About QA Flag
`

func TestDecode_GettingStarted(t *testing.T) {
	s, err := Decode(strings.NewReader(gettingStartedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []outNode{{
		Type:  KindCategory,
		Label: "Getting Started",
		Items: []outNode{{Type: KindDoc, ID: "intro", Label: "About QA Flag"}},
	}}
	sb, ok := s.Get("mySidebar")
	if !ok {
		t.Fatal("expected mySidebar")
	}
	if diff := cmp.Diff(want, toOut(sb.items)); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_AcceptsJSON(t *testing.T) {
	input := `{"b":[{"type":"doc","id":"x","label":"X"}],"a":[{"type":"doc","id":"y","label":"Y"}]}`
	s, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, s.Names()); diff != "" {
		t.Errorf("sidebar order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty category",
			input:   "s:\n  - type: category\n    label: Empty\n    items: []\n",
			wantErr: ErrEmptyCategory,
			wantMsg: `[0] "Empty"`,
		},
		{
			name:    "category without items",
			input:   "s:\n  - type: category\n    label: Empty\n",
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "unknown type",
			input:   "s:\n  - type: link\n    label: Home\n",
			wantErr: ErrUnknownType,
			wantMsg: `"link"`,
		},
		{
			name:    "doc without id",
			input:   "s:\n  - type: doc\n    label: About\n",
			wantErr: ErrEmptyID,
		},
		{
			name:    "doc without label",
			input:   "s:\n  - type: doc\n    id: intro\n",
			wantErr: ErrEmptyLabel,
		},
		{
			name:    "empty sidebar",
			input:   "s: []\n",
			wantErr: ErrEmptySidebar,
		},
		{
			name:    "nested error carries path",
			input:   "s:\n  - type: category\n    label: Outer\n    items:\n      - type: category\n        label: Inner\n        items: []\n",
			wantErr: ErrEmptyCategory,
			wantMsg: `Outer > [0] "Inner"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error to contain %q, got %q", tc.wantMsg, err)
			}
		})
	}
}

func TestDecode_NotAMapping(t *testing.T) {
	for _, input := range []string{"", "- a\n- b\n", "{}"} {
		if _, err := Decode(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func TestEncode_DefaultRoundTrip(t *testing.T) {
	s := Default()
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertSameSidebars(t, s, got)
}

func TestMarshalJSON_Ordered(t *testing.T) {
	a, _ := NewSidebar("zeta", MustDoc("z", "Z"))
	b, _ := NewSidebar("alpha", MustCategory("Cat", MustDoc("a", "A")))
	s, _ := New(a, b)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":[{"type":"doc","id":"z","label":"Z"}],"alpha":[{"type":"category","label":"Cat","items":[{"type":"doc","id":"a","label":"A"}]}]}`
	if string(data) != want {
		t.Errorf("unexpected json:\n got %s\nwant %s", data, want)
	}

	back, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	assertSameSidebars(t, s, back)
}

func TestEncodeDecode_PreservesStructure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSidebars().Draw(t, "sidebars")

		var buf bytes.Buffer
		if err := s.Encode(&buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("decode: %v\n%s", err, buf.String())
		}
		if diff := cmp.Diff(s.Names(), got.Names()); diff != "" {
			t.Fatalf("sidebar order mismatch (-want +got):\n%s", diff)
		}
		for _, name := range s.Names() {
			want, _ := s.Get(name)
			have, _ := got.Get(name)
			if diff := cmp.Diff(toOut(want.items), toOut(have.items)); diff != "" {
				t.Fatalf("sidebar %q mismatch (-want +got):\n%s", name, diff)
			}
		}
	})
}

func assertSameSidebars(t *testing.T, want, got *Sidebars) {
	t.Helper()
	if diff := cmp.Diff(want.Names(), got.Names()); diff != "" {
		t.Fatalf("sidebar order mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want.Names() {
		w, _ := want.Get(name)
		g, _ := got.Get(name)
		if diff := cmp.Diff(toOut(w.items), toOut(g.items)); diff != "" {
			t.Errorf("sidebar %q mismatch (-want +got):\n%s", name, diff)
		}
	}
}

var (
	labelGen = rapid.StringMatching(`[A-Z][A-Za-z0-9 :#'-]{0,15}`)
	idGen    = rapid.StringMatching(`[a-z][a-z0-9-]{0,8}(/[a-z][a-z0-9-]{0,8})?`)
)

func genNode(depth int) *rapid.Generator[Node] {
	return rapid.Custom(func(t *rapid.T) Node {
		if depth >= 3 || rapid.Bool().Draw(t, "leaf") {
			return MustDoc(idGen.Draw(t, "id"), labelGen.Draw(t, "label"))
		}
		items := rapid.SliceOfN(genNode(depth+1), 1, 4).Draw(t, "items")
		return MustCategory(labelGen.Draw(t, "label"), items...)
	})
}

func genSidebars() *rapid.Generator[*Sidebars] {
	return rapid.Custom(func(t *rapid.T) *Sidebars {
		n := rapid.IntRange(1, 3).Draw(t, "count")
		var sidebars []*Sidebar
		for i := 0; i < n; i++ {
			items := rapid.SliceOfN(genNode(0), 1, 5).Draw(t, "items")
			sb, err := NewSidebar(fmt.Sprintf("sidebar%d", i), items...)
			if err != nil {
				t.Fatalf("generate sidebar: %v", err)
			}
			sidebars = append(sidebars, sb)
		}
		s, err := New(sidebars...)
		if err != nil {
			t.Fatalf("generate sidebars: %v", err)
		}
		return s
	})
}
