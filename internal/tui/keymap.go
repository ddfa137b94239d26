package tui

// Key bindings handled in browse mode.
const (
	KeyQuit       = "q"
	KeyCtrlC      = "ctrl+c"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"
	KeyEdit       = "enter"
	KeyUndo       = "u"
	KeyRedo       = "ctrl+r"
	KeyRegenerate = "r"
	KeySpeaker    = "s"
	KeyFiller     = "f"
	KeyStutter    = "t"
	KeyMacros     = "m"
	KeyExport     = "x"
	KeySave       = "ctrl+s"
	KeyReload     = "ctrl+l"
)

// Key bindings handled while a segment is being edited.
const (
	KeyCommit = "ctrl+s"
	KeyCancel = "esc"
)

// macroToggleKeys toggles macro.IDs by position.
var macroToggleKeys = []string{"1", "2", "3", "4", "5"}
