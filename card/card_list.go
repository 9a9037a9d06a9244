package card

type CardList []Card

// NewStandardDeck returns the 52 cards in suits x ranks order.
func NewStandardDeck() CardList {
	deck := make(CardList, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) CardsBytes() []byte {
	return Cards2bytes(ds)
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// PopCard removes and returns the last card (the top of the deck).
func (ds *CardList) PopCard() (Card, bool) {
	totalCount := ds.Count()
	if totalCount == 0 {
		return Card{}, false
	}
	c := (*ds)[totalCount-1]
	*ds = (*ds)[:totalCount-1]
	return c, true
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc.Equal(c) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

func (ds CardList) Strings() []string {
	out := make([]string, 0, len(ds))
	for _, c := range ds {
		out = append(out, c.String())
	}
	return out
}

func (ds CardList) Codes() []string {
	out := make([]string, 0, len(ds))
	for _, c := range ds {
		out = append(out, c.Code())
	}
	return out
}
