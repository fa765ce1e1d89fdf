package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", tree.Title)
	}
	// Untitled leading text collects into one section.
	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Sections))
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if tree.Sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, tree.Sections[0].Text)
	}
}

func TestTextParser_UnderlinedHeadings(t *testing.T) {
	input := "Release Notes\n=============\n\nIntro.\n\nBreaking Changes\n----------------\n\nRenamed flags.\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "changelog.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Release Notes" {
		t.Errorf("expected title %q, got %q", "Release Notes", tree.Title)
	}
	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Sections))
	}
	top := tree.Sections[0]
	if top.Text != "Intro." {
		t.Errorf("expected intro text, got %q", top.Text)
	}
	if len(top.Children) != 1 || top.Children[0].Anchor != "breaking-changes" {
		t.Fatalf("expected breaking-changes child, got %+v", top.Children)
	}
	if top.Children[0].Text != "Renamed flags." {
		t.Errorf("unexpected child text %q", top.Children[0].Text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(tree.Sections))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 1 || tree.Sections[0].Text != "Para one.\n\nPara two." {
		t.Fatalf("expected paragraphs joined by a blank line, got %+v", tree.Sections)
	}
}
