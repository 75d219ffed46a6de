package ocr

import (
	"reflect"
	"testing"
)

func TestSplitTokens(t *testing.T) {
	text := "Ιζ3\n\nε4  ε5\n  0-0  \n"
	got := SplitTokens(text)
	want := []string{"Ιζ3", "ε4", "ε5", "0-0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitTokens_Empty(t *testing.T) {
	if got := SplitTokens(""); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := SplitTokens("\n  \n\t\n"); got != nil {
		t.Errorf("whitespace only: got %v, want nil", got)
	}
}

func TestParseSheetResponse(t *testing.T) {
	data := []byte(`{"columns": [
		{"columnIndex": 0, "moves": ["ε4", "Ιζ3"]},
		{"columnIndex": 1, "moves": ["ε5"]}
	]}`)

	resp, err := ParseSheetResponse(data)
	if err != nil {
		t.Fatalf("ParseSheetResponse failed: %v", err)
	}
	if len(resp.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(resp.Columns))
	}
	if resp.Columns[0].ColumnIndex != 0 || len(resp.Columns[0].Moves) != 2 {
		t.Errorf("column 0: got %+v", resp.Columns[0])
	}
	if resp.Columns[1].Moves[0] != "ε5" {
		t.Errorf("column 1 move: got %q", resp.Columns[1].Moves[0])
	}
}

func TestParseSheetResponse_EmptySheet(t *testing.T) {
	resp, err := ParseSheetResponse([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseSheetResponse failed: %v", err)
	}
	if len(resp.Columns) != 0 {
		t.Errorf("got %d columns, want 0", len(resp.Columns))
	}
}

func TestParseSheetResponse_Malformed(t *testing.T) {
	if _, err := ParseSheetResponse([]byte(`{"columns": [`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
