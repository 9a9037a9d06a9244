package card

import "fmt"

// 编码规则: 高4位花色, 低4位点数. Hidden is not encoded.
func (c Card) Byte() byte {
	return byte(c.Suit)<<4 | byte(c.Rank)
}

func FromByte(b byte) (Card, error) {
	c := Card{Suit: Suit(b >> 4), Rank: Rank(b & 0x0F)}
	if !c.Valid() {
		return Card{}, fmt.Errorf("invalid card byte: 0x%02x", b)
	}
	return c, nil
}

func Cards2bytes(cs []Card) []byte {
	out := make([]byte, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Byte())
	}
	return out
}

func Bytes2cards(bs []byte) (CardList, error) {
	out := make(CardList, 0, len(bs))
	for _, b := range bs {
		c, err := FromByte(b)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
