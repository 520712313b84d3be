package metrics

// grouper buckets trades by key and remembers the order keys were first
// seen in.
type grouper struct {
	index map[string]int
	accs  []groupAcc
}

type groupAcc struct {
	name  string
	count int
	wins  int
	pnl   float64
	r     float64
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(key string, t ComputedTrade) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.accs)
		g.index[key] = i
		g.accs = append(g.accs, groupAcc{name: key})
	}
	a := &g.accs[i]
	a.count++
	if t.NetPnL > 0 {
		a.wins++
	}
	a.pnl += t.NetPnL
	a.r += t.RMultiple
}

// buckets returns the groups in discovery order.
func (g *grouper) buckets() []Bucket {
	out := make([]Bucket, 0, len(g.accs))
	for _, a := range g.accs {
		out = append(out, Bucket{
			Name:    a.name,
			Count:   a.count,
			Wins:    a.wins,
			WinRate: round1(ratio(float64(a.wins), float64(a.count)) * 100),
			PnL:     round2(a.pnl),
			AvgR:    round2(ratio(a.r, float64(a.count))),
		})
	}
	return out
}
