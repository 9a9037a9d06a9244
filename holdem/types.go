package holdem

import "holdem-fair/card"

// InvalidSeat marks "no seat" for current player, last raiser and button lookups.
const InvalidSeat = -1

const (
	MinPlayers = 2
	MaxPlayers = 9

	DefaultStartingStack int64 = 1000
	DefaultSmallBlind    int64 = 1
	DefaultBigBlind      int64 = 2

	holeCardCount = 2
)

// Round 下注轮
type Round byte

const (
	RoundPreFlop Round = 0
	RoundFlop    Round = 1
	RoundTurn    Round = 2
	RoundRiver   Round = 3
)

var RoundDictionary = map[Round]string{
	RoundPreFlop: "PRE_FLOP",
	RoundFlop:    "FLOP",
	RoundTurn:    "TURN",
	RoundRiver:   "RIVER",
}

func (r Round) String() string {
	if s, ok := RoundDictionary[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseRound accepts the dictionary names.
func ParseRound(s string) (Round, bool) {
	for r, name := range RoundDictionary {
		if name == s {
			return r, true
		}
	}
	return 0, false
}

// ActionType 动作类型：0-NONE 1-CHECK 2-CALL 3-RAISE 4-FOLD
type ActionType byte

const (
	PlayerActionTypeNone  ActionType = 0
	PlayerActionTypeCheck ActionType = 1
	PlayerActionTypeCall  ActionType = 2
	PlayerActionTypeRaise ActionType = 3
	PlayerActionTypeFold  ActionType = 4
)

var PlayerActionTypeDictionary = map[ActionType]string{
	PlayerActionTypeNone:  "NONE",
	PlayerActionTypeCheck: "CHECK",
	PlayerActionTypeCall:  "CALL",
	PlayerActionTypeRaise: "RAISE",
	PlayerActionTypeFold:  "FOLD",
}

func (a ActionType) String() string {
	if s, ok := PlayerActionTypeDictionary[a]; ok {
		return s
	}
	return "UNKNOWN"
}

func ParseActionType(s string) (ActionType, bool) {
	for a, name := range PlayerActionTypeDictionary {
		if name == s && a != PlayerActionTypeNone {
			return a, true
		}
	}
	return PlayerActionTypeNone, false
}

// PlayerStatus 玩家状态
type PlayerStatus byte

const (
	PlayerStatusActive     PlayerStatus = 0
	PlayerStatusFolded     PlayerStatus = 1
	PlayerStatusAllIn      PlayerStatus = 2
	PlayerStatusSittingOut PlayerStatus = 3
	PlayerStatusLeft       PlayerStatus = 4
)

var PlayerStatusDictionary = map[PlayerStatus]string{
	PlayerStatusActive:     "ACTIVE",
	PlayerStatusFolded:     "FOLDED",
	PlayerStatusAllIn:      "ALL_IN",
	PlayerStatusSittingOut: "SITTING_OUT",
	PlayerStatusLeft:       "LEFT",
}

func (s PlayerStatus) String() string {
	if v, ok := PlayerStatusDictionary[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// GameAction is a request to act. Amount is the raise-to total for RAISE and ignored otherwise.
type GameAction struct {
	Type     ActionType
	PlayerID string
	Amount   int64
}

// HandRanking 手牌等级
type HandRanking byte

const (
	HandHighCard      HandRanking = iota + 1 // 高牌
	HandOnePair                              // 一对
	HandTwoPair                              // 两对
	HandThreeOfKind                          // 三条
	HandStraight                             // 顺子
	HandFlush                                // 同花
	HandFullHouse                            // 葫芦
	HandFourOfKind                           // 四条
	HandStraightFlush                        // 同花顺
	HandRoyalFlush                           // 皇家同花顺
)

var HandRankingDictionary = map[HandRanking]string{
	HandHighCard:      "HIGH_CARD",
	HandOnePair:       "PAIR",
	HandTwoPair:       "TWO_PAIR",
	HandThreeOfKind:   "THREE_OF_A_KIND",
	HandStraight:      "STRAIGHT",
	HandFlush:         "FLUSH",
	HandFullHouse:     "FULL_HOUSE",
	HandFourOfKind:    "FOUR_OF_A_KIND",
	HandStraightFlush: "STRAIGHT_FLUSH",
	HandRoyalFlush:    "ROYAL_FLUSH",
}

func (h HandRanking) String() string {
	if s, ok := HandRankingDictionary[h]; ok {
		return s
	}
	return "UNKNOWN"
}

// Hand is an evaluated hand. Higher Value is stronger.
type Hand struct {
	Cards   []card.Card
	Ranking HandRanking
	Value   int
	Label   string
}
