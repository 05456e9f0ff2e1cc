// Package audio defines the pronunciation and sound-effect capabilities
// the bot depends on. Playback is a shared resource with flush semantics:
// starting a new utterance replaces whatever is in progress, and nothing
// is ever queued.
package audio

import "sync"

// Speaker pronounces text. Implementations must treat Speak as a flush:
// any utterance in progress is cancelled by the new one.
type Speaker interface {
	// Speak starts pronouncing text, identified by utteranceID.
	Speak(text, utteranceID string)
	// Stop cancels the current utterance, if any.
	Stop()
	// Current returns the id of the utterance in progress, or "" when idle.
	Current() string
}

// SoundEffects plays the short feedback tones for test answers.
type SoundEffects interface {
	PlayCorrect()
	PlayIncorrect()
}

// NopSpeaker tracks the current utterance id without producing audio.
// Telegram chats have no speech channel; the id bookkeeping still drives
// the play/stop toggle in the UI.
type NopSpeaker struct {
	mu      sync.Mutex
	current string
}

func NewNopSpeaker() *NopSpeaker {
	return &NopSpeaker{}
}

func (s *NopSpeaker) Speak(text, utteranceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = utteranceID
}

func (s *NopSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

func (s *NopSpeaker) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NopSoundEffects discards feedback tones.
type NopSoundEffects struct{}

func (NopSoundEffects) PlayCorrect()   {}
func (NopSoundEffects) PlayIncorrect() {}
