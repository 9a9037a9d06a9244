package card

import "testing"

func TestNewStandardDeck_UniqueAndOrdered(t *testing.T) {
	deck := NewStandardDeck()
	if deck.Count() != 52 {
		t.Fatalf("expected 52 cards, got %d", deck.Count())
	}
	seen := make(map[byte]bool, 52)
	for _, c := range deck {
		if seen[c.Byte()] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c.Byte()] = true
	}
	if !deck[0].Equal(New(Spade, Two)) {
		t.Fatalf("expected first card 2♠, got %s", deck[0])
	}
	if !deck[51].Equal(New(Diamond, Ace)) {
		t.Fatalf("expected last card A♦, got %s", deck[51])
	}
}

func TestRankValues(t *testing.T) {
	want := map[Rank]int{Two: 2, Ten: 10, Jack: 11, Queen: 12, King: 13, Ace: 14}
	for r, v := range want {
		if r.Value() != v {
			t.Fatalf("rank %s value=%d want %d", r, r.Value(), v)
		}
	}
	if RankInvalid.Value() != 0 {
		t.Fatalf("invalid rank should have value 0")
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Card{
		"As":  New(Spade, Ace),
		"Td":  New(Diamond, Ten),
		"10h": New(Heart, Ten),
		"2c":  New(Club, Two),
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Parse(%q)=%s want %s", in, got, want)
		}
	}
	for _, bad := range []string{"", "A", "Ax", "1s", "Zs"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) expected error", bad)
		}
	}
}

func TestEqualIgnoresHidden(t *testing.T) {
	a := New(Heart, King)
	b := a.Concealed()
	if !a.Equal(b) {
		t.Fatalf("hidden flag must not affect identity")
	}
	if b.String() != "??" {
		t.Fatalf("hidden card should render as ??, got %s", b.String())
	}
}

func TestPopCard_TakesFromTop(t *testing.T) {
	var ds CardList
	ds.Init([]Card{New(Spade, Two), New(Club, Three)})
	c, ok := ds.PopCard()
	if !ok || !c.Equal(New(Club, Three)) {
		t.Fatalf("expected 3♣ from the top, got %s ok=%v", c, ok)
	}
	if _, ok := ds.PopCard(); !ok {
		t.Fatalf("expected second pop to succeed")
	}
	if _, ok := ds.PopCard(); ok {
		t.Fatalf("expected empty pop to fail")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	deck := NewStandardDeck()
	back, err := Bytes2cards(deck.CardsBytes())
	if err != nil {
		t.Fatalf("Bytes2cards err: %v", err)
	}
	for i := range deck {
		if !deck[i].Equal(back[i]) {
			t.Fatalf("card %d mismatch: %s vs %s", i, deck[i], back[i])
		}
	}
	if _, err := FromByte(0xFF); err == nil {
		t.Fatalf("expected error for invalid byte")
	}
}
