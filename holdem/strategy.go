package holdem

// seatingRule decides blind seats and acting order for a table size.
// It is chosen once per hand from the number of players dealt in.
type seatingRule interface {
	name() string
	// blindSeats returns the small and big blind seats for a button.
	blindSeats(r *Roster, dealer int) (sb, bb int)
	// firstToAct returns the first seat that may act in round, or InvalidSeat.
	firstToAct(r *Roster, round Round, dealer int) int
	// nextToAct returns the next seat after from that may act, or InvalidSeat.
	nextToAct(r *Roster, from int) int
	// actingOrder lists the seats dealt in, starting from the round's opener.
	actingOrder(r *Roster, round Round, dealer int) []int
}

func ruleFor(seats int) seatingRule {
	if seats == 2 {
		return headsUpRule{}
	}
	return ringRule{}
}

func dealtIn(p *Player) bool { return p.DealtIn() }
func canAct(p *Player) bool  { return p.CanAct() }

// clockwise is the acting order shared by every table size; only the opener differs.
type clockwise struct{}

func (clockwise) nextToAct(r *Roster, from int) int {
	return r.nextSeat(from, canAct)
}

func orderFrom(r *Roster, start int) []int {
	out := make([]int, 0, r.Len())
	if start == InvalidSeat {
		start = 0
	}
	r.WalkAll(start, func(p *Player) {
		if p.DealtIn() {
			out = append(out, p.Position)
		}
	})
	return out
}

// headsUpRule: the button posts the small blind and acts first pre-flop;
// the big blind acts first on later streets.
type headsUpRule struct{ clockwise }

func (headsUpRule) name() string { return "heads-up" }

func (headsUpRule) blindSeats(r *Roster, dealer int) (int, int) {
	sb := dealer
	if p := r.Seat(dealer); p == nil || !p.DealtIn() {
		sb = r.nextSeat(dealer, dealtIn)
	}
	return sb, r.nextSeat(sb, dealtIn)
}

func (h headsUpRule) firstToAct(r *Roster, round Round, dealer int) int {
	sb, bb := h.blindSeats(r, dealer)
	start := bb
	if round == RoundPreFlop {
		start = sb
	}
	return firstActiveFrom(r, start)
}

func (h headsUpRule) actingOrder(r *Roster, round Round, dealer int) []int {
	sb, bb := h.blindSeats(r, dealer)
	if round == RoundPreFlop {
		return orderFrom(r, sb)
	}
	return orderFrom(r, bb)
}

// ringRule: blinds follow the button; under the gun opens pre-flop,
// the first live seat after the button opens later streets.
type ringRule struct{ clockwise }

func (ringRule) name() string { return "ring" }

func (ringRule) blindSeats(r *Roster, dealer int) (int, int) {
	sb := r.nextSeat(dealer, dealtIn)
	return sb, r.nextSeat(sb, dealtIn)
}

func (g ringRule) firstToAct(r *Roster, round Round, dealer int) int {
	if round == RoundPreFlop {
		_, bb := g.blindSeats(r, dealer)
		return r.nextSeat(bb, canAct)
	}
	return r.nextSeat(dealer, canAct)
}

func (g ringRule) actingOrder(r *Roster, round Round, dealer int) []int {
	if round == RoundPreFlop {
		_, bb := g.blindSeats(r, dealer)
		return orderFrom(r, r.nextSeat(bb, dealtIn))
	}
	return orderFrom(r, r.nextSeat(dealer, dealtIn))
}

// firstActiveFrom returns start if it can act, else the next seat that can.
func firstActiveFrom(r *Roster, start int) int {
	if start == InvalidSeat {
		return InvalidSeat
	}
	if p := r.WalkOnce(start, canAct); p != nil {
		return p.Position
	}
	return InvalidSeat
}

// assignRoles clears and sets dealer/blind flags for a hand.
func assignRoles(r *Roster, rule seatingRule, dealer int) (sb, bb int) {
	for _, p := range r.seats {
		if p != nil {
			p.IsDealer, p.IsSmallBlind, p.IsBigBlind = false, false, false
		}
	}
	sb, bb = rule.blindSeats(r, dealer)
	if p := r.Seat(dealer); p != nil {
		p.IsDealer = true
	}
	if p := r.Seat(sb); p != nil {
		p.IsSmallBlind = true
	}
	if p := r.Seat(bb); p != nil {
		p.IsBigBlind = true
	}
	return sb, bb
}
