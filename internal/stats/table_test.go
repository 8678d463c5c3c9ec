package stats

import "testing"

func TestLayoutTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Title"}, {title: "WPM", numeric: true}, {title: "Accuracy", numeric: true}}
	rows := [][]string{
		{"a", "97", "12%"},
		{"<space>", "8", "100%"},
	}

	lines := layoutTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Title   WPM Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a        97      12%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>   8     100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestLayoutTableWideRunesAndShortRows(t *testing.T) {
	lines := layoutTable([]column{{title: "T"}, {title: "N"}}, [][]string{{"日本", "1"}, {"ab"}})
	if lines[1] != "日本 1" || lines[2] != "ab    " {
		t.Fatalf("unexpected layout: %q", lines)
	}
}
