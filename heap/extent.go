package heap

// Extent is the lowest and highest address the tracker has handed out,
// where Max is the end of the payload (address + size). It only widens.
type Extent struct {
	Min Addr
	Max Addr

	seen bool
}

// widen grows the extent to cover [lo, hi].
func (e *Extent) widen(lo, hi Addr) {
	if !e.seen {
		e.Min, e.Max, e.seen = lo, hi, true
		return
	}
	e.Min = min(e.Min, lo)
	e.Max = max(e.Max, hi)
}

// Contains reports whether a lies in [Min, Max]. Before the first allocation
// nothing is contained.
func (e Extent) Contains(a Addr) bool {
	return e.seen && a >= e.Min && a <= e.Max
}

// Empty reports whether no allocation has succeeded yet.
func (e Extent) Empty() bool {
	return !e.seen
}
