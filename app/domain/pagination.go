package domain

// DefaultPageLimit is used when a caller asks for a non-positive page size
const DefaultPageLimit = 10

// ScanDirection is the order in which the store is scanned for a page
type ScanDirection int

const (
	ScanAscending ScanDirection = iota
	ScanDescending
)

func (d ScanDirection) String() string {
	if d == ScanDescending {
		return "desc"
	}
	return "asc"
}

// ContactPageQuery asks for one page of contacts.
// At most one of NextCursor and PrevCursor may be set.
type ContactPageQuery struct {
	NextCursor string
	PrevCursor string
	Limit      int
}

// HasNext reports whether a next-cursor was supplied
func (q ContactPageQuery) HasNext() bool { return q.NextCursor != "" }

// HasPrev reports whether a prev-cursor was supplied
func (q ContactPageQuery) HasPrev() bool { return q.PrevCursor != "" }

// EffectiveLimit returns the page size after defaulting
func (q ContactPageQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultPageLimit
	}
	return q.Limit
}

// ContactRange is a bounded, ordered read from the contact store
type ContactRange struct {
	// After is the exclusive bound; nil means start from the edge of the ordering
	After     *Cursor
	Direction ScanDirection
	Limit     int
}

// ContactPage is one page of contacts in ascending (created_at, id) order.
// A nil cursor means there is nothing further in that direction.
type ContactPage struct {
	Data       []*Contact `json:"data"`
	NextCursor *string    `json:"nextCursor"`
	PrevCursor *string    `json:"prevCursor"`
}
