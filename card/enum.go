package card

// Rank 点数, stored as its comparison value (2..14, A=14).
type Rank byte

const (
	RankInvalid Rank = 0
	Two         Rank = iota + 1
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// rankValues is the fixed rank -> integer table (2..10 literal, J=11, Q=12, K=13, A=14).
var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9, Ten: 10,
	Jack: 11, Queen: 12, King: 13, Ace: 14,
}

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9", Ten: "10",
	Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// Value returns the comparison value of the rank, 0 for an invalid rank.
func (r Rank) Value() int { return rankValues[r] }

func (r Rank) String() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return "?"
}

func (r Rank) Valid() bool { return r >= Two && r <= Ace }
