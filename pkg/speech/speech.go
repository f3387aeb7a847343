// Package speech defines the voice capability contracts the interview flow
// depends on: text-to-speech playback, streaming transcription, and raw audio
// capture. Implementations are platform bindings; the no-op defaults let the
// flow run without any of them, falling back to duration placeholders instead
// of transcripts.
package speech

import "time"

// SpeakOptions tunes synthesized playback.
type SpeakOptions struct {
	Rate   float64 // speaking rate multiplier, 1.0 = normal
	Pitch  float64
	Volume float64
}

func DefaultSpeakOptions() SpeakOptions {
	return SpeakOptions{Rate: 0.9, Pitch: 1.0, Volume: 1.0}
}

// Synthesizer plays a text prompt aloud. Speak blocks until playback finishes
// or Cancel is called; Cancel discards any queued utterances.
type Synthesizer interface {
	Speak(text string, opts SpeakOptions) error
	Cancel()
}

// Result is one transcription update. Final results are stable; interim ones
// may be revised by the next update.
type Result struct {
	Text  string
	Final bool
}

// Recognizer streams transcription results while capture is active. Start
// registers the callbacks and begins listening; onEnd fires exactly once when
// recognition stops, whether by Stop or by the platform ending the stream.
// Stop after the stream has ended is a no-op.
type Recognizer interface {
	Start(onResult func(Result), onEnd func()) error
	Stop()
}

// Recorder captures raw audio. Chunks are handed to onChunk in capture order.
type Recorder interface {
	Start(onChunk func([]byte)) error
	Stop() (duration time.Duration, err error)
}

// Capabilities bundles the bindings available to a session. Nil fields mean
// the capability is absent.
type Capabilities struct {
	Synthesizer Synthesizer
	Recognizer  Recognizer
	Recorder    Recorder
}

// NoopSynthesizer discards prompts. Playback "finishes" immediately.
type NoopSynthesizer struct{}

func (NoopSynthesizer) Speak(string, SpeakOptions) error { return nil }
func (NoopSynthesizer) Cancel()                          {}

// NoopRecognizer produces no transcript: onEnd fires as soon as Stop is
// called. Sessions using it fall back to the duration placeholder text.
type NoopRecognizer struct {
	onEnd func()
}

func (r *NoopRecognizer) Start(onResult func(Result), onEnd func()) error {
	r.onEnd = onEnd
	return nil
}

func (r *NoopRecognizer) Stop() {
	if r.onEnd != nil {
		end := r.onEnd
		r.onEnd = nil
		end()
	}
}

// NoopRecorder tracks wall-clock duration and discards audio.
type NoopRecorder struct {
	started time.Time
}

func (r *NoopRecorder) Start(func([]byte)) error {
	r.started = time.Now()
	return nil
}

func (r *NoopRecorder) Stop() (time.Duration, error) {
	if r.started.IsZero() {
		return 0, nil
	}
	d := time.Since(r.started)
	r.started = time.Time{}
	return d, nil
}
