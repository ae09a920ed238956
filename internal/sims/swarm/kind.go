package swarm

import (
	"fmt"
	"strings"
)

// Kind is one of the three cyclic categories an entity can belong to.
type Kind uint8

const (
	Rock Kind = iota
	Paper
	Scissors

	numKinds
)

// Kinds lists every valid kind in declaration order.
var Kinds = [numKinds]Kind{Rock, Paper, Scissors}

// prey[k] is the kind that k converts on contact.
var prey = [numKinds]Kind{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Valid reports whether k names one of the three kinds.
func (k Kind) Valid() bool { return k < numKinds }

func (k Kind) String() string {
	switch k {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Label is the capitalised display name.
func (k Kind) Label() string {
	s := k.String()
	if !k.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Beats reports whether k wins against other. Both kinds must be valid.
func (k Kind) Beats(other Kind) bool {
	return prey[k] == other
}

// ParseKind accepts a kind name (case-insensitive) or its single-letter form.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r", "a":
		return Rock, nil
	case "paper", "p", "b":
		return Paper, nil
	case "scissors", "s", "c":
		return Scissors, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, s)
}

// Winner applies the dominance rule. It returns the winning kind and true for
// distinct kinds, or false when a and b tie. Invalid kinds panic: an undefined
// outcome means an entity was corrupted.
func Winner(a, b Kind) (Kind, bool) {
	if !a.Valid() || !b.Valid() {
		panic(fmt.Sprintf("swarm: dominance undefined for %v vs %v", a, b))
	}
	if a == b {
		return a, false
	}
	if a.Beats(b) {
		return a, true
	}
	return b, true
}

// Counts holds the number of entities per kind, indexed by Kind.
type Counts [numKinds]int

// Of returns the count for k.
func (c Counts) Of(k Kind) int {
	if !k.Valid() {
		return 0
	}
	return c[k]
}

// Total sums every kind.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Dominant returns the only kind still present, if exactly one remains.
func (c Counts) Dominant() (Kind, bool) {
	var found Kind
	present := 0
	for _, k := range Kinds {
		if c[k] > 0 {
			found = k
			present++
		}
	}
	return found, present == 1
}

func (c Counts) String() string {
	return fmt.Sprintf("Rock: %d   Paper: %d   Scissors: %d", c[Rock], c[Paper], c[Scissors])
}
