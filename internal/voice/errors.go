package voice

import "fmt"

// Platform error codes.
const (
	CodeNotAllowed        = "not-allowed"
	CodeNoSpeech          = "no-speech"
	CodeAudioCapture      = "audio-capture"
	CodeNetwork           = "network"
	CodeAborted           = "aborted"
	CodeServiceNotAllowed = "service-not-allowed"
)

// MsgNotSupported is reported by every start attempt when the platform has no
// speech-recognition capability.
const MsgNotSupported = "Speech recognition is not supported on this system."

// MsgUnavailable is reported when the recognizer could not be rebuilt.
const MsgUnavailable = "Speech recognition is currently unavailable."

var errorMessages = map[string]string{
	CodeNotAllowed:        "Microphone access denied. Please enable microphone permissions.",
	CodeNoSpeech:          "No speech detected. Please try again.",
	CodeAudioCapture:      "No microphone found. Please check your device.",
	CodeNetwork:           "Network error occurred. Please check your connection.",
	CodeAborted:           "Speech recognition was aborted.",
	CodeServiceNotAllowed: "Speech recognition service is not allowed.",
}

// Describe maps a platform error code to a user-facing message.
func Describe(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("speech recognition error: %s", code)
}
