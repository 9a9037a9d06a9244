package holdem

import (
	"errors"
	"fmt"
	"testing"

	"holdem-fair/card"
)

func intPtr(v int) *int { return &v }

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *GameEngine {
	t.Helper()
	e, err := NewGameEngine(cfg, opts...)
	if err != nil {
		t.Fatalf("NewGameEngine err: %v", err)
	}
	return e
}

func TestNewGameEngine_RejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 10} {
		_, err := NewGameEngine(Config{Players: n})
		var countErr InvalidPlayerCountError
		if !errors.As(err, &countErr) {
			t.Fatalf("players=%d: expected InvalidPlayerCountError, got %v", n, err)
		}
		if int(countErr) != n {
			t.Fatalf("error carries %d, want %d", int(countErr), n)
		}
	}
}

func TestNewGameEngine_RejectsBadBlindsAndDealer(t *testing.T) {
	if _, err := NewGameEngine(Config{Players: 3, SmallBlind: 5, BigBlind: 2}); err == nil {
		t.Fatalf("expected small blind above big blind to fail")
	}
	if _, err := NewGameEngine(Config{Players: 3, ForcedDealer: intPtr(3)}); err == nil {
		t.Fatalf("expected out of range forced dealer to fail")
	}
}

func TestNewGameEngine_Defaults(t *testing.T) {
	e := newTestEngine(t, Config{Players: 4})
	cfg := e.Config()
	if cfg.StartingStack != DefaultStartingStack || cfg.SmallBlind != DefaultSmallBlind || cfg.BigBlind != DefaultBigBlind {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if d := e.DealerPosition(); d < 0 || d >= 4 {
		t.Fatalf("random dealer out of range: %d", d)
	}
	for _, p := range e.Roster().Players() {
		if p.Stack() != DefaultStartingStack || p.Status() != PlayerStatusActive {
			t.Fatalf("seat %d not seated with default stack", p.Position)
		}
	}
	if e.ServerSeedHash() != "" {
		t.Fatalf("no hand dealt yet, expected empty commitment")
	}
	if len(e.NextServerSeedHash()) != 64 {
		t.Fatalf("next hand commitment must exist before the deal")
	}
}

func TestStartNewHand_DealsInSeedOrder(t *testing.T) {
	e := newTestEngine(t, Config{Players: 4, ForcedDealer: intPtr(2), ClientSeed: "c"}, WithServerSeeds("seed-a"))
	committed := e.NextServerSeedHash()
	if err := e.StartNewHand(); err != nil {
		t.Fatalf("StartNewHand err: %v", err)
	}
	if e.ServerSeedHash() != committed {
		t.Fatalf("hand dealt from a deck other than the committed one")
	}
	if e.RevealServerSeed() != "seed-a" {
		t.Fatalf("unexpected server seed %q", e.RevealServerSeed())
	}

	order := DealOrder("seed-a", "c")
	st := e.GameState()
	// Two passes starting left of the button: seats 3, 0, 1, 2.
	seats := []int{3, 0, 1, 2}
	for pass := 0; pass < 2; pass++ {
		for i, seat := range seats {
			got := st.Players[seat].HoleCards()[pass]
			want := order[pass*4+i]
			if !got.Equal(want) {
				t.Fatalf("seat %d card %d: got %s want %s", seat, pass, got, want)
			}
			if !got.Hidden {
				t.Fatalf("hole cards must be dealt face down")
			}
		}
	}

	wantBurns := []card.Card{order[8], order[12], order[14]}
	wantBoard := []card.Card{order[9], order[10], order[11], order[13], order[15]}
	if len(st.BurnedCards) != 3 || len(st.CommunityCards) != 5 {
		t.Fatalf("expected 3 burns and 5 board cards, got %d and %d", len(st.BurnedCards), len(st.CommunityCards))
	}
	for i := range wantBurns {
		if !st.BurnedCards[i].Equal(wantBurns[i]) {
			t.Fatalf("burn %d: got %s want %s", i, st.BurnedCards[i], wantBurns[i])
		}
	}
	for i := range wantBoard {
		if !st.CommunityCards[i].Equal(wantBoard[i]) {
			t.Fatalf("board %d: got %s want %s", i, st.CommunityCards[i], wantBoard[i])
		}
		if st.CommunityCards[i].Hidden {
			t.Fatalf("board cards are dealt face up")
		}
	}
	if st.RemainingCards != 36 {
		t.Fatalf("expected 36 cards left, got %d", st.RemainingCards)
	}
	if st.DealerPosition != 2 || st.SmallBlindPosition != 3 || st.BigBlindPosition != 0 {
		t.Fatalf("unexpected roles: dealer=%d sb=%d bb=%d", st.DealerPosition, st.SmallBlindPosition, st.BigBlindPosition)
	}
}

func TestStartNewHand_SameSeedsSameHand(t *testing.T) {
	deal := func() GameState {
		e := newTestEngine(t, Config{Players: 6, ForcedDealer: intPtr(1), ClientSeed: "x"}, WithServerSeeds("fixed"))
		if err := e.StartNewHand(); err != nil {
			t.Fatal(err)
		}
		return e.GameState()
	}
	a, b := deal(), deal()
	for i := range a.Players {
		for j, c := range a.Players[i].HoleCards() {
			if !c.Equal(b.Players[i].HoleCards()[j]) {
				t.Fatalf("seat %d differs between identical deals", i)
			}
		}
	}
	for i := range a.CommunityCards {
		if !a.CommunityCards[i].Equal(b.CommunityCards[i]) {
			t.Fatalf("board differs between identical deals")
		}
	}
}

func foldToOne(t *testing.T, rm *RoundManager) {
	t.Helper()
	for !rm.IsHandComplete() {
		p := rm.CurrentPlayer()
		if p == nil {
			t.Fatalf("no player to act in an unfinished hand")
		}
		act(t, rm, PlayerActionTypeFold, p.ID, 0)
	}
}

func finishHand(t *testing.T, rm *RoundManager) {
	t.Helper()
	foldToOne(t, rm)
	if _, err := rm.Settle(nil, NewLibraryEvaluator()); err != nil {
		t.Fatalf("Settle err: %v", err)
	}
}

func TestStartNewHand_RotatesButton(t *testing.T) {
	e := newTestEngine(t, Config{Players: 3, ForcedDealer: intPtr(0)})
	for hand, want := range []int{0, 1, 2, 0} {
		if err := e.StartNewHand(); err != nil {
			t.Fatalf("hand %d: %v", hand, err)
		}
		if got := e.DealerPosition(); got != want {
			t.Fatalf("hand %d: dealer %d want %d", hand, got, want)
		}
		rm, err := e.NewRoundManager()
		if err != nil {
			t.Fatal(err)
		}
		finishHand(t, rm)
	}
	if e.HandNumber() != 4 {
		t.Fatalf("expected 4 hands, got %d", e.HandNumber())
	}
}

func TestStartNewHand_RejectsWhileBetting(t *testing.T) {
	e := newTestEngine(t, Config{Players: 3, ForcedDealer: intPtr(0)})
	if _, err := e.NewRoundManager(); !errors.Is(err, ErrNoHand) {
		t.Fatalf("expected ErrNoHand, got %v", err)
	}
	if err := e.StartNewHand(); err != nil {
		t.Fatal(err)
	}
	rm, err := e.NewRoundManager()
	if err != nil {
		t.Fatal(err)
	}
	again, _ := e.NewRoundManager()
	if again != rm {
		t.Fatalf("expected the same manager within a hand")
	}
	if err := e.StartNewHand(); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("expected ErrHandInProgress, got %v", err)
	}
	foldToOne(t, rm)
	if err := e.StartNewHand(); !errors.Is(err, ErrHandNotSettled) {
		t.Fatalf("expected ErrHandNotSettled, got %v", err)
	}
	if e.HandNumber() != 1 || rm.Pot() == 0 {
		t.Fatalf("refused deal must leave the finished hand untouched")
	}
	if _, err := rm.Settle(nil, NewLibraryEvaluator()); err != nil {
		t.Fatal(err)
	}
	if err := e.StartNewHand(); err != nil {
		t.Fatalf("StartNewHand after settlement: %v", err)
	}
}

func TestStartNewHand_HeadsUpRoles(t *testing.T) {
	e := newTestEngine(t, Config{Players: 2, ForcedDealer: intPtr(1)})
	if err := e.StartNewHand(); err != nil {
		t.Fatal(err)
	}
	st := e.GameState()
	if st.SmallBlindPosition != 1 || st.BigBlindPosition != 0 {
		t.Fatalf("heads-up button must post the small blind: sb=%d bb=%d", st.SmallBlindPosition, st.BigBlindPosition)
	}
	rm, _ := e.NewRoundManager()
	if rm.CurrentState().CurrentPlayer != 1 {
		t.Fatalf("heads-up button acts first pre-flop")
	}
}

func TestStartNewHand_BustedSeatSitsOut(t *testing.T) {
	e := newTestEngine(t, Config{Players: 4, ForcedDealer: intPtr(2)})
	bust := e.Roster().Seat(2)
	bust.SetStack(0)
	bust.addHoleCard(card.MustParse("As"), card.MustParse("Kd"))

	if err := e.StartNewHand(); err != nil {
		t.Fatal(err)
	}
	if bust.Status() != PlayerStatusSittingOut || len(bust.HoleCards()) != 0 {
		t.Fatalf("busted seat must sit out with no cards, status=%s cards=%d", bust.Status(), len(bust.HoleCards()))
	}
	if e.DealerPosition() != 3 {
		t.Fatalf("button must skip the busted seat, got %d", e.DealerPosition())
	}
	if e.GameState().RemainingCards != 52-6-8 {
		t.Fatalf("only seated players receive cards")
	}
}

func TestStartNewHand_NotEnoughPlayers(t *testing.T) {
	e := newTestEngine(t, Config{Players: 3})
	e.Roster().Seat(0).Leave()
	e.Roster().Seat(1).SetStack(0)
	if err := e.StartNewHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
}

func TestGameEngine_CommitsNextHandBeforeDeal(t *testing.T) {
	e := newTestEngine(t, Config{Players: 3}, WithServerSeeds("h1", "h2"))
	if err := e.SetClientSeed("mine"); err != nil {
		t.Fatal(err)
	}
	first := e.NextServerSeedHash()
	if first != SeedCommitment("h1") {
		t.Fatalf("first commitment must be for h1")
	}
	if err := e.StartNewHand(); err != nil {
		t.Fatal(err)
	}
	if e.ServerSeedHash() != first || e.ClientSeed() != "mine" {
		t.Fatalf("hand did not use the committed deck")
	}
	if e.NextServerSeedHash() != SeedCommitment("h2") {
		t.Fatalf("next commitment must be published right after the deal")
	}
	if err := VerifyDeal(e.RevealServerSeed(), e.ClientSeed(), first, nil); err != nil {
		t.Fatalf("revealed seed fails verification: %v", err)
	}
}

func TestStartNewHand_EveryCardAccountedFor(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		t.Run(fmt.Sprintf("%d_players", n), func(t *testing.T) {
			e := newTestEngine(t, Config{Players: n, ForcedDealer: intPtr(0)}, WithServerSeeds(fmt.Sprintf("seed-%d", n)))
			if err := e.StartNewHand(); err != nil {
				t.Fatalf("StartNewHand err: %v", err)
			}
			st := e.GameState()

			var all []card.Card
			for i := range st.Players {
				hole := st.Players[i].HoleCards()
				if len(hole) != 2 {
					t.Fatalf("seat %d holds %d cards", i, len(hole))
				}
				all = append(all, hole...)
			}
			all = append(all, st.CommunityCards...)
			all = append(all, st.BurnedCards...)
			all = append(all, st.Deck...)
			if len(all) != 52 {
				t.Fatalf("expected 52 cards, got %d", len(all))
			}
			if st.RemainingCards != 52-2*n-8 {
				t.Fatalf("expected %d cards left, got %d", 52-2*n-8, st.RemainingCards)
			}
			seen := make(map[string]bool, len(all))
			for _, c := range all {
				if !c.Valid() || seen[c.Code()] {
					t.Fatalf("card %s invalid or dealt twice", c.Code())
				}
				seen[c.Code()] = true
			}
		})
	}
}
