package view

// Region is a display area that renders the result of one kind of fetch.
// Listing and search share RegionList because they draw into the same list.
type Region int

const (
	RegionList Region = iota
	RegionRecent
	RegionRemoved
	RegionStats
	RegionDetail
)

func (r Region) String() string {
	switch r {
	case RegionList:
		return "list"
	case RegionRecent:
		return "recent"
	case RegionRemoved:
		return "removed"
	case RegionStats:
		return "stats"
	case RegionDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Token identifies one outstanding fetch: the region it draws into, its issue
// order, and the State it was issued for.
type Token struct {
	Region Region
	Seq    uint64
	State  State
}

// Tracker hands out tokens and decides whether a completed fetch may still be
// rendered. It is not safe for concurrent use; it lives on the UI goroutine.
type Tracker struct {
	seq    uint64
	latest map[Region]uint64
}

// Issue records a new fetch for region under state, superseding any earlier
// fetch for the same region.
func (t *Tracker) Issue(region Region, state State) Token {
	if t.latest == nil {
		t.latest = make(map[Region]uint64)
	}
	t.seq++
	t.latest[region] = t.seq
	return Token{Region: region, Seq: t.seq, State: state}
}

// Accept reports whether a completed fetch should be rendered: it must be the
// most recent fetch issued for its region and the State it was issued for must
// still be current. An accepted token is consumed, so a duplicate delivery is
// rejected.
func (t *Tracker) Accept(tok Token, current State) bool {
	latest, ok := t.latest[tok.Region]
	if !ok || latest != tok.Seq {
		return false
	}
	if tok.State != current {
		return false
	}
	delete(t.latest, tok.Region)
	return true
}

// Pending reports whether region has a fetch outstanding.
func (t *Tracker) Pending(region Region) bool {
	_, ok := t.latest[region]
	return ok
}
