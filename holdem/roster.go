package holdem

// Roster is the seat arena shared by the engine and the round manager.
// Players are addressed by stable seat index; the slice is never reordered.
type Roster struct {
	seats []*Player
}

// NewRoster takes ownership of players; each player's Position is set to its index.
func NewRoster(players ...*Player) *Roster {
	for i, p := range players {
		if p != nil {
			p.Position = i
		}
	}
	return &Roster{seats: players}
}

// NewUniformRoster seats n players with identical stacks, ids "1".."n".
func NewUniformRoster(n int, stack int64) *Roster {
	seats := make([]*Player, n)
	for i := range seats {
		seats[i] = NewPlayer(i, stack)
	}
	return &Roster{seats: seats}
}

func (r *Roster) Len() int { return len(r.seats) }

// Seat returns the player at index, nil when out of range.
func (r *Roster) Seat(i int) *Player {
	if i < 0 || i >= len(r.seats) {
		return nil
	}
	return r.seats[i]
}

func (r *Roster) ByID(id string) *Player {
	for _, p := range r.seats {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Players returns the seats in index order. The slice is a copy; the players are shared.
func (r *Roster) Players() []*Player {
	out := make([]*Player, len(r.seats))
	copy(out, r.seats)
	return out
}

// WalkOnce 从 start 开始顺时针遍历一圈，支持 break。
// fn 返回 true 表示“找到/停止”，返回该玩家。
func (r *Roster) WalkOnce(start int, fn func(*Player) bool) *Player {
	n := len(r.seats)
	if n == 0 {
		return nil
	}
	start = ((start % n) + n) % n
	for i := 0; i < n; i++ {
		p := r.seats[(start+i)%n]
		if p == nil {
			continue
		}
		if fn(p) {
			return p
		}
	}
	return nil
}

// WalkAll 遍历一圈，不中断
func (r *Roster) WalkAll(start int, fn func(*Player)) {
	r.WalkOnce(start, func(p *Player) bool {
		fn(p)
		return false
	})
}

// nextSeat returns the first seat strictly after from that satisfies pred, or InvalidSeat.
// from itself is considered last.
func (r *Roster) nextSeat(from int, pred func(*Player) bool) int {
	if p := r.WalkOnce(from+1, pred); p != nil {
		return p.Position
	}
	return InvalidSeat
}

func (r *Roster) count(pred func(*Player) bool) int {
	n := 0
	for _, p := range r.seats {
		if p != nil && pred(p) {
			n++
		}
	}
	return n
}

func (r *Roster) snapshot() []Player {
	out := make([]Player, 0, len(r.seats))
	for _, p := range r.seats {
		if p != nil {
			out = append(out, p.clone())
		}
	}
	return out
}
