package token

import "testing"

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{1, 80},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d, %d).LineCol() = %d, %d", c.line, c.col, gotLine, gotCol)
		}
	}
}

func TestPosUnknown(t *testing.T) {
	if !NoPos.Unknown() {
		t.Error("NoPos must be Unknown")
	}
	if MakePos(1, 1).Unknown() {
		t.Error("MakePos(1, 1) must not be Unknown")
	}
}

func TestPosString(t *testing.T) {
	if got := NoPos.String(); got != "-" {
		t.Errorf("NoPos.String() = %q, want %q", got, "-")
	}
	if got := MakePos(3, 14).String(); got != "3:14" {
		t.Errorf("MakePos(3, 14).String() = %q, want %q", got, "3:14")
	}
}
