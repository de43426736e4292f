package styles

import (
	"testing"

	m "github.com/mouse-blink/quill/internal/model"
)

func TestXML_FullBlock(t *testing.T) {
	rec := csharpRecord()

	got := XML(rec, m.PlaceholderContent(rec), Options{})

	want := joinLines(
		`    /// <summary>`,
		`    /// _summary_`,
		`    /// </summary>`,
		`    /// <param name="a">_description_</param>`,
		`    /// <param name="b">_description_</param>`,
		`    /// <returns>_returns_</returns>`,
		`    /// <exception cref="ArgumentException">_description_</exception>`,
	)
	if got != want {
		t.Fatalf("unexpected block:\n%s\nwant:\n%s", got, want)
	}
}

func TestXML_VoidMethodHasNoReturns(t *testing.T) {
	rec := csharpRecord()
	rec.ReturnTypeHint = "void"
	rec.Raises = nil

	got := XML(rec, m.PlaceholderContent(rec), Options{})

	want := joinLines(
		`    /// <summary>`,
		`    /// _summary_`,
		`    /// </summary>`,
		`    /// <param name="a">_description_</param>`,
		`    /// <param name="b">_description_</param>`,
	)
	if got != want {
		t.Fatalf("unexpected block:\n%s\nwant:\n%s", got, want)
	}
}

func TestXML_NoSummaryKeptWhenBlockWouldBeEmpty(t *testing.T) {
	rec := csharpRecord()
	rec.Parameters = nil
	rec.Raises = nil
	rec.ReturnTypeHint = "void"

	got := XML(rec, m.PlaceholderContent(rec), Options{NoSummary: true})

	want := joinLines(
		`    /// <summary>`,
		`    /// _summary_`,
		`    /// </summary>`,
	)
	if got != want {
		t.Fatalf("unexpected block:\n%s\nwant:\n%s", got, want)
	}
}

func TestXML_NoSummaryDroppedWhenSectionsRemain(t *testing.T) {
	rec := csharpRecord()
	rec.Raises = nil

	got := XML(rec, m.PlaceholderContent(rec), Options{NoSummary: true})

	want := joinLines(
		`    /// <param name="a">_description_</param>`,
		`    /// <param name="b">_description_</param>`,
		`    /// <returns>_returns_</returns>`,
	)
	if got != want {
		t.Fatalf("unexpected block:\n%s\nwant:\n%s", got, want)
	}
}
