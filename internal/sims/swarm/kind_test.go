package swarm

import (
	"errors"
	"testing"
)

func TestWinnerCycle(t *testing.T) {
	cases := []struct {
		a, b   Kind
		winner Kind
	}{
		{Rock, Scissors, Rock},
		{Scissors, Paper, Scissors},
		{Paper, Rock, Paper},
	}
	for _, c := range cases {
		got, ok := Winner(c.a, c.b)
		if !ok || got != c.winner {
			t.Fatalf("Winner(%v, %v) = %v, %v; want %v, true", c.a, c.b, got, ok, c.winner)
		}
		got, ok = Winner(c.b, c.a)
		if !ok || got != c.winner {
			t.Fatalf("Winner(%v, %v) = %v, %v; want %v, true", c.b, c.a, got, ok, c.winner)
		}
	}
}

func TestWinnerTotalAndAsymmetric(t *testing.T) {
	for _, a := range Kinds {
		for _, b := range Kinds {
			w1, ok1 := Winner(a, b)
			w2, ok2 := Winner(b, a)
			if a == b {
				if ok1 || ok2 {
					t.Fatalf("same kind %v must tie", a)
				}
				continue
			}
			if !ok1 || !ok2 {
				t.Fatalf("distinct kinds %v, %v must not tie", a, b)
			}
			if w1 != w2 {
				t.Fatalf("Winner disagrees with itself for %v/%v: %v vs %v", a, b, w1, w2)
			}
			if w1 != a && w1 != b {
				t.Fatalf("winner %v is neither %v nor %v", w1, a, b)
			}
			if a.Beats(b) == b.Beats(a) {
				t.Fatalf("exactly one of %v, %v must beat the other", a, b)
			}
		}
	}
}

func TestBeatsOnlyCycleEdges(t *testing.T) {
	want := map[[2]Kind]bool{
		{Rock, Scissors}:  true,
		{Scissors, Paper}: true,
		{Paper, Rock}:     true,
	}
	for _, a := range Kinds {
		for _, b := range Kinds {
			if got := a.Beats(b); got != want[[2]Kind{a, b}] {
				t.Fatalf("%v.Beats(%v) = %v", a, b, got)
			}
		}
	}
}

func TestWinnerPanicsOnInvalidKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid kind")
		}
	}()
	Winner(Rock, Kind(7))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"rock": Rock, "Paper": Paper, " SCISSORS ": Scissors,
		"a": Rock, "b": Paper, "c": Scissors,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("lizard"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCountsDominant(t *testing.T) {
	if _, ok := (Counts{}).Dominant(); ok {
		t.Fatal("empty population has no dominant kind")
	}
	if _, ok := (Counts{1, 0, 2}).Dominant(); ok {
		t.Fatal("two kinds present must not report dominance")
	}
	k, ok := (Counts{0, 0, 5}).Dominant()
	if !ok || k != Scissors {
		t.Fatalf("expected scissors dominant, got %v %v", k, ok)
	}
	if got := (Counts{2, 18, 15}).String(); got != "Rock: 2   Paper: 18   Scissors: 15" {
		t.Fatalf("unexpected counter text %q", got)
	}
}
