package ui

// Job symbols, one per status category.
const (
	SymbolFailed     = "✗"
	SymbolBuilding   = "◐"
	SymbolSuccessful = "●"
	SymbolUnknown    = "○"
)

// Command outcome symbols.
const (
	SymbolOK      = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)
