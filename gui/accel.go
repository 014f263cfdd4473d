package gui

// AccelEntry maps one key combination to a command id.
type AccelEntry struct {
	Mods   uint16
	Keysym uint32
	Cmd    uint32
}

// AccelTable translates key presses into command messages before
// generic dispatch gets a chance. Entries are checked in the order they
// were added.
type AccelTable struct {
	// IgnoreMods is stripped from the incoming modifier state before
	// matching, so Caps Lock and Num Lock do not break accelerators.
	IgnoreMods uint16

	entries []AccelEntry
}

// NewAccelTable creates an empty table ignoring the lock modifiers.
func NewAccelTable() *AccelTable {
	return &AccelTable{IgnoreMods: ModLock | Mod2}
}

// Add appends an entry.
func (t *AccelTable) Add(mods uint16, keysym uint32, cmd uint32) {
	t.entries = append(t.entries, AccelEntry{Mods: mods, Keysym: keysym, Cmd: cmd})
}

// Match returns the command for the given modifier state and keysym.
func (t *AccelTable) Match(state uint16, keysym uint32) (uint32, bool) {
	state &^= t.IgnoreMods
	for _, e := range t.entries {
		if e.Keysym == keysym && e.Mods == state {
			return e.Cmd, true
		}
	}
	return 0, false
}

// Len returns the number of entries.
func (t *AccelTable) Len() int {
	return len(t.entries)
}
