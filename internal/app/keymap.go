package app

// Key binding constants used in handleKey.
const (
	KeyCtrlC       = "ctrl+c"
	KeyEnter       = "enter"
	KeyTab         = "tab"
	KeyEsc         = "esc"
	KeySpace       = " "
	KeyJ           = "j"
	KeyK           = "k"
	KeyUp          = "up"
	KeyDown        = "down"
	KeyDelete      = "d"
	KeyVoice       = "ctrl+r"
	KeyLanguage    = "ctrl+l"
	KeyMeditation  = "ctrl+t"
	KeyNewChat     = "ctrl+n"
	KeyBreathStop  = "s"
	KeyBreathReset = "r"
)
