package breath

// Guidance returns the instruction shown for a phase.
func Guidance(p Phase) string {
	switch p {
	case PhaseIdle:
		return "Find a comfortable seat and close your eyes gently."
	case PhaseInhale:
		return "Breathe in slowly through the nose..."
	case PhaseHold:
		return "Hold the breath gently..."
	case PhaseExhale:
		return "Breathe out fully, letting go of all tension..."
	case PhaseComplete:
		return "Beautiful. Rest in this stillness for a moment."
	}
	return ""
}
