package speech

import "time"

// DefaultVoice is used when no voice is configured.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// DefaultAudioFormat is requested from Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Priority orders queued narration. Higher value = speaks first.
type Priority int

const (
	PriorityLow    Priority = iota // status chatter, dropped by anything more important
	PriorityNormal                 // recipe read-outs
)

// request is a queued item waiting to be spoken.
type request struct {
	text     string
	priority Priority
	queuedAt time.Time
}
