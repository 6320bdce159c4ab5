package domain

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Page is an offset window over a listing.
type Page struct {
	Limit  int
	Offset int
}

// Normalize fills a zero limit with the default and caps it at MaxPageLimit.
// A negative offset starts from the beginning.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Window returns the [start, end) slice bounds of the page over n items.
func (p Page) Window(n int) (int, int) {
	p = p.Normalize()
	start := min(p.Offset, n)
	return start, min(start+p.Limit, n)
}

// StandingOrderFilter narrows a standing order listing. Nil fields match
// everything.
type StandingOrderFilter struct {
	AccountID *string
	Active    *bool
	Page      Page
}

func (f StandingOrderFilter) Matches(order StandingOrder) bool {
	if f.AccountID != nil && order.FromAccountID != *f.AccountID {
		return false
	}
	if f.Active != nil && order.Active != *f.Active {
		return false
	}
	return true
}
