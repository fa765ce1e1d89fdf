package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"intro.md": {Data: []byte("# About QA Flag\n\nQA Flag is a testing toolset.\n")},
		"getting-started/install.md": {Data: []byte(
			"---\ntitle: Install the CLI\nsidebar_label: Install\n---\n\nRun `npm i -g qaflag`.\n")},
		"cli/run.md": {Data: []byte(
			"---\nid: run-suites\ndescription: Run every suite\n---\n# Run Suites\n\n## Flags\n\nUse --env.\n")},
		"json/notes.txt":        {Data: []byte("Schemas\n=======\n\nAssert shapes.\n")},
		"_drafts/wip.md":        {Data: []byte("# Draft")},
		".hidden.md":            {Data: []byte("# Hidden")},
		"img/logo.png":          {Data: []byte{0x89, 'P', 'N', 'G'}},
		"playwright/visual.htm": {Data: []byte("<h1>Visual</h1><p>Compare.</p>")},
	}
}

func TestOpen_IndexesSupportedFiles(t *testing.T) {
	s, err := Open(fixtureFS(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"cli/run-suites",
		"getting-started/install",
		"intro",
		"json/notes",
		"playwright/visual",
	}
	if diff := cmp.Diff(want, s.IDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != len(want) {
		t.Errorf("expected Len %d, got %d", len(want), s.Len())
	}
	for _, id := range want {
		if !s.Has(id) {
			t.Errorf("expected Has(%q)", id)
		}
	}
	if s.Has("_drafts/wip") || s.Has("cli/run") {
		t.Error("expected drafts and overridden ids to be absent")
	}
}

func TestOpen_TitlesAndFrontMatter(t *testing.T) {
	s, err := Open(fixtureFS(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		id          string
		title       string
		label       string
		titleInBody bool
	}{
		{"intro", "About QA Flag", "", true},
		{"getting-started/install", "Install the CLI", "Install", false},
		{"cli/run-suites", "Run Suites", "", true},
		{"json/notes", "Schemas", "", false},
		{"playwright/visual", "Visual", "", true},
	}
	for _, tc := range tests {
		doc, err := s.Get(tc.id)
		if err != nil {
			t.Fatalf("Get(%q): %v", tc.id, err)
		}
		if doc.Title != tc.title {
			t.Errorf("%s: expected title %q, got %q", tc.id, tc.title, doc.Title)
		}
		if doc.SidebarLabel != tc.label {
			t.Errorf("%s: expected sidebar label %q, got %q", tc.id, tc.label, doc.SidebarLabel)
		}
		if doc.TitleInBody != tc.titleInBody {
			t.Errorf("%s: expected TitleInBody %v", tc.id, tc.titleInBody)
		}
		if len(doc.Hash) != 64 {
			t.Errorf("%s: expected sha256 hex hash, got %q", tc.id, doc.Hash)
		}
	}

	run, _ := s.Get("cli/run-suites")
	if run.Description != "Run every suite" {
		t.Errorf("unexpected description %q", run.Description)
	}
	if !strings.Contains(string(run.Body), `<h2 id="flags">Flags</h2>`) {
		t.Errorf("expected rendered markdown body, got %s", run.Body)
	}
	intro, _ := s.Get("intro")
	if intro.Description != "QA Flag is a testing toolset." {
		t.Errorf("expected description from the opening paragraph, got %q", intro.Description)
	}
	notes, _ := s.Get("json/notes")
	if !strings.Contains(string(notes.Body), "<p>Assert shapes.</p>") {
		t.Errorf("expected outline-rendered body, got %s", notes.Body)
	}
}

func TestOpen_DuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"cli/run.md":   {Data: []byte("# Run")},
		"cli/other.md": {Data: []byte("---\nid: run\n---\n# Other")},
	}
	_, err := Open(fsys, Options{})
	if err == nil || !strings.Contains(err.Error(), `duplicate doc id "cli/run"`) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestOpen_BadFrontMatter(t *testing.T) {
	fsys := fstest.MapFS{"intro.md": {Data: []byte("---\ntitle: [unterminated\n---\n")}}
	if _, err := Open(fsys, Options{}); err == nil {
		t.Fatal("expected front matter error")
	}
}

func TestGet_NotFound(t *testing.T) {
	s, err := Open(fstest.MapFS{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestDocID(t *testing.T) {
	tests := []struct {
		path, override, want string
	}{
		{"intro.md", "", "intro"},
		{"getting-started/first-test.md", "", "getting-started/first-test"},
		{"cli/run.md", "run-suites", "cli/run-suites"},
		{"a/b/c.mdx", "", "a/b/c"},
	}
	for _, tc := range tests {
		if got := DocID(tc.path, tc.override); got != tc.want {
			t.Errorf("DocID(%q, %q): expected %q, got %q", tc.path, tc.override, tc.want, got)
		}
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantFM   FrontMatter
		wantBody string
		wantErr  bool
	}{
		{"none", "Title\n=====\n", FrontMatter{}, "Title\n=====\n", false},
		{"basic", "---\ntitle: Step\n---\nbody\n", FrontMatter{Title: "Step"}, "body\n", false},
		{"crlf", "---\r\nsidebar_label: Ctx\r\n---\r\nbody", FrontMatter{SidebarLabel: "Ctx"}, "body", false},
		{"unterminated", "---\ntitle: x\n", FrontMatter{}, "", true},
		{"slash id", "---\nid: a/b\n---\n", FrontMatter{}, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fm, body, err := SplitFrontMatter([]byte(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.wantFM, fm); diff != "" {
				t.Errorf("front matter mismatch (-want +got):\n%s", diff)
			}
			if string(body) != tc.wantBody {
				t.Errorf("expected body %q, got %q", tc.wantBody, body)
			}
		})
	}
}

func TestFrontMatterFromMeta(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		want    FrontMatter
		wantErr bool
	}{
		{"empty", map[string]any{}, FrontMatter{}, false},
		{"known keys", map[string]any{
			"id": "run-suites", "title": "Run Suites", "sidebar_label": "Run", "description": "Run them",
			"tags": []any{"cli"},
		}, FrontMatter{ID: "run-suites", Title: "Run Suites", SidebarLabel: "Run", Description: "Run them"}, false},
		{"numeric id", map[string]any{"id": 404}, FrontMatter{ID: "404"}, false},
		{"null title", map[string]any{"title": nil}, FrontMatter{}, false},
		{"list title", map[string]any{"title": []any{"a"}}, FrontMatter{}, true},
		{"slash id", map[string]any{"id": "a/b"}, FrontMatter{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fm, err := FrontMatterFromMeta(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, fm); diff != "" {
				t.Errorf("front matter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_TextFrontMatter(t *testing.T) {
	fsys := fstest.MapFS{
		"json/notes.txt": {Data: []byte("---\nid: schemas\nsidebar_label: Schemas\n---\nSchemas\n=======\n\nAssert shapes.\n")},
	}
	s, err := Open(fsys, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := s.Get("json/schemas")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.SidebarLabel != "Schemas" || doc.Title != "Schemas" {
		t.Errorf("unexpected doc %q/%q", doc.Title, doc.SidebarLabel)
	}
}

func TestOpen_SlashIDInMarkdown(t *testing.T) {
	fsys := fstest.MapFS{"cli/run.md": {Data: []byte("---\nid: cli/run\n---\n# Run\n")}}
	if _, err := Open(fsys, Options{}); err == nil || !strings.Contains(err.Error(), "must not contain") {
		t.Fatalf("expected slash id error, got %v", err)
	}
}
