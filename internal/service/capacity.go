package service

import "parispub/internal/config"

// UnitsNeeded converts a party into capacity units for one slot.
func UnitsNeeded(partySize int, booking config.Booking) int {
	if booking.CapacityModel == config.CapacityHeadcount {
		return partySize
	}
	return ceilDiv(partySize, booking.TableCapacity)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Ledger tracks per-slot usage for one date against the day's slot grid.
type Ledger struct {
	grid  []string
	index map[string]int
	usage map[string]int
	total int
}

// NewLedger builds a ledger. usage maps "HH:MM" to the units already booked.
func NewLedger(grid []string, usage map[string]int, total int) *Ledger {
	index := make(map[string]int, len(grid))
	for i, t := range grid {
		if _, dup := index[t]; !dup {
			index[t] = i
		}
	}
	if usage == nil {
		usage = map[string]int{}
	}
	return &Ledger{grid: grid, index: index, usage: usage, total: total}
}

// Used returns the units booked at slot.
func (l *Ledger) Used(slot string) int {
	return l.usage[slot]
}

// Window expands start into duration consecutive grid slots. ok is false
// when start is not on the grid or the window runs past closing.
func (l *Ledger) Window(start string, duration int) ([]string, bool) {
	i, found := l.index[start]
	if !found || duration < 1 || i+duration > len(l.grid) {
		return nil, false
	}
	return l.grid[i : i+duration], true
}

// SlotFits reports whether need more units fit into slot.
func (l *Ledger) SlotFits(slot string, need int) bool {
	return l.usage[slot]+need <= l.total
}

// WindowFits is true when every slot of the window exists and has room.
func (l *Ledger) WindowFits(start string, duration, need int) bool {
	window, ok := l.Window(start, duration)
	if !ok {
		return false
	}
	for _, slot := range window {
		if !l.SlotFits(slot, need) {
			return false
		}
	}
	return true
}

// Available filters the grid down to the starts that can anchor a window.
func (l *Ledger) Available(duration, need int) []string {
	out := []string{}
	for _, start := range l.grid {
		if l.WindowFits(start, duration, need) {
			out = append(out, start)
		}
	}
	return out
}
