package receipt

import (
	"strings"
	"testing"
)

func TestBuilderFragmentOrder(t *testing.T) {
	b := NewBuilder()
	b.AddHeading("STORE", 1, AlignCenter)
	b.AddDivider(DividerThin, DividerSolid)
	b.AddText("Thanks!", "", "", false, false, "")

	fragments := b.Fragments()
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}
	if !strings.HasPrefix(fragments[0], "<h1") {
		t.Fatalf("fragment 0 should be a heading, got: %s", fragments[0])
	}
	if !strings.HasPrefix(fragments[1], "<hr") {
		t.Fatalf("fragment 1 should be a divider, got: %s", fragments[1])
	}
	if !strings.HasPrefix(fragments[2], "<p") {
		t.Fatalf("fragment 2 should be a paragraph, got: %s", fragments[2])
	}

	document := b.Build()
	headingAt := strings.Index(document, "<h1")
	dividerAt := strings.Index(document, "<hr")
	textAt := strings.Index(document, "Thanks!")
	if headingAt < 0 || dividerAt < 0 || textAt < 0 {
		t.Fatalf("document missing fragments: %s", document)
	}
	if !(headingAt < dividerAt && dividerAt < textAt) {
		t.Fatalf("document fragment order does not match call order")
	}
}

func TestBuilderBuildIdempotent(t *testing.T) {
	b := NewBuilder()
	b.AddText("once", "", "", false, false, "")

	first := b.Build()
	second := b.Build()
	if first != second {
		t.Fatalf("Build is not idempotent")
	}
	if strings.Count(first, "</html>") != 1 {
		t.Fatalf("document closed more than once: %s", first)
	}
	if strings.Count(first, "</body>") != 1 {
		t.Fatalf("body closed more than once: %s", first)
	}
}

func TestBuilderColumnWidthLaw(t *testing.T) {
	width := 30
	b := NewBuilder()
	b.AddColumns([]Column{
		{Text: "fixed", Width: &width},
		{Text: "a"},
		{Text: "b"},
	})

	fragment := b.Fragments()[0]
	if strings.Count(fragment, "width:30%;flex-shrink:0") != 1 {
		t.Fatalf("fixed column should be 30%% non-shrinking: %s", fragment)
	}
	if strings.Count(fragment, `style="flex:1"`) != 2 {
		t.Fatalf("width-less columns should each get flex:1: %s", fragment)
	}
}

func TestBuilderAlignmentCoverage(t *testing.T) {
	aligns := []Align{AlignLeft, AlignCenter, AlignRight}
	for _, align := range aligns {
		b := NewBuilder()
		b.AddHeading("h", 2, align)
		b.AddText("t", "", "", false, false, align)
		b.AddImage("https://example.com/x.png", 50, align)

		for i, fragment := range b.Fragments() {
			want := "align-" + string(align)
			if !strings.Contains(fragment, want) {
				t.Fatalf("fragment %d missing class %s: %s", i, want, fragment)
			}
			for _, other := range aligns {
				if other == align {
					continue
				}
				if strings.Contains(fragment, "align-"+string(other)) {
					t.Fatalf("fragment %d carries stray alignment class align-%s: %s", i, other, fragment)
				}
			}
		}
	}
}

func TestBuilderTextOptionClasses(t *testing.T) {
	b := NewBuilder()
	b.AddText("styled", SizeLG, WeightBolder, true, true, AlignRight)
	fragment := b.Fragments()[0]
	for _, class := range []string{"size-lg", "weight-bolder", "italic", "underline", "align-right"} {
		if !strings.Contains(fragment, class) {
			t.Fatalf("fragment missing class %s: %s", class, fragment)
		}
	}

	b = NewBuilder()
	b.AddText("plain", "", "", false, false, "")
	fragment = b.Fragments()[0]
	if fragment != "<p>plain</p>" {
		t.Fatalf("absent options must apply no class, got: %s", fragment)
	}
}

func TestBuilderDividerClasses(t *testing.T) {
	b := NewBuilder()
	b.AddDivider("", "")
	if got := b.Fragments()[0]; !strings.Contains(got, "hr-thin") || !strings.Contains(got, "hr-solid") {
		t.Fatalf("divider defaults should be thin/solid: %s", got)
	}

	b = NewBuilder()
	b.AddDivider(DividerThick, DividerDouble)
	if got := b.Fragments()[0]; !strings.Contains(got, "hr-thick") || !strings.Contains(got, "hr-double") {
		t.Fatalf("divider classes not applied: %s", got)
	}
}

func TestBuilderSanitizesText(t *testing.T) {
	b := NewBuilder()
	b.AddText(`<script>alert(1)</script>hi`, "", "", false, false, "")
	b.AddHeading(`<b>STORE</b>`, 1, "")

	for _, fragment := range b.Fragments() {
		if strings.Contains(fragment, "<script") || strings.Contains(fragment, "<b>") {
			t.Fatalf("user markup leaked into document: %s", fragment)
		}
	}
	if !strings.Contains(b.Fragments()[0], "hi") {
		t.Fatalf("plain text should survive sanitizing: %s", b.Fragments()[0])
	}
}

func TestBuilderAddSymbolNormalizesRoot(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="48" viewBox="0 0 100 48" style="fill:red"><rect x="0"/></svg>`

	b := NewBuilder()
	if err := b.AddSymbol(markup, 50, AlignRight); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	fragment := b.Fragments()[0]

	if strings.Contains(fragment, `width="100"`) || strings.Contains(fragment, `height="48"`) {
		t.Fatalf("literal root dimensions should be stripped: %s", fragment)
	}
	if strings.Count(fragment, "max-width:50%") != 1 {
		t.Fatalf("expected exactly one max-width declaration: %s", fragment)
	}
	if !strings.Contains(fragment, "height:auto") {
		t.Fatalf("expected height:auto declaration: %s", fragment)
	}
	if !strings.Contains(fragment, "fill:red") {
		t.Fatalf("pre-existing style content should survive the merge: %s", fragment)
	}
	if !strings.Contains(fragment, "align-right") {
		t.Fatalf("symbol should be wrapped in its alignment container: %s", fragment)
	}
	if !strings.Contains(fragment, "<rect") {
		t.Fatalf("symbol body should be untouched: %s", fragment)
	}
}

func TestBuilderAddSymbolMergeOverridesDuplicates(t *testing.T) {
	markup := `<svg style="max-width:80%;height:120px"><rect/></svg>`

	b := NewBuilder()
	if err := b.AddSymbol(markup, 25, AlignLeft); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	fragment := b.Fragments()[0]

	if strings.Count(fragment, "max-width") != 1 {
		t.Fatalf("max-width duplicated after merge: %s", fragment)
	}
	if !strings.Contains(fragment, "max-width:25%") {
		t.Fatalf("max-width should be overridden to 25%%: %s", fragment)
	}
	if strings.Contains(fragment, "height:120px") {
		t.Fatalf("height should be overridden to auto: %s", fragment)
	}
}

func TestBuilderAddSymbolRejectsNonMarkup(t *testing.T) {
	b := NewBuilder()
	if err := b.AddSymbol("   ", 50, AlignCenter); err == nil {
		t.Fatalf("expected error for markup without a root element")
	}
}
