package styles

import (
	"testing"

	m "github.com/mouse-blink/quill/internal/model"
)

func TestBasic_SingleLine(t *testing.T) {
	rec := pythonRecord()

	got := Basic(rec, m.PlaceholderContent(rec), Options{})

	want := joinLines(`    """_summary_"""`)
	if got != want {
		t.Fatalf("unexpected block:\n%q\nwant:\n%q", got, want)
	}
}

func TestBasic_MethodIndent(t *testing.T) {
	rec := pythonRecord()
	rec.SignatureIndent = "    "

	got := Basic(rec, m.ContentFields{Summary: "Adds two numbers."}, Options{})

	want := joinLines(`        """Adds two numbers."""`)
	if got != want {
		t.Fatalf("unexpected block:\n%q\nwant:\n%q", got, want)
	}
}

func TestBasic_IgnoresNoSummary(t *testing.T) {
	rec := pythonRecord()

	with := Basic(rec, m.PlaceholderContent(rec), Options{})
	without := Basic(rec, m.PlaceholderContent(rec), Options{NoSummary: true})

	if with != without {
		t.Fatalf("expected the no-summary option to have no effect")
	}
}
