package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/speech"
)

// Step names the stage a candidate session is in.
type Step string

const (
	StepWelcome  Step = "welcome"
	StepQuestion Step = "question"
	StepReview   Step = "review"
	StepThankYou Step = "thankyou"
)

var (
	ErrWrongStep    = fmt.Errorf("operation not valid in current step")
	ErrNotRecording = fmt.Errorf("no recording in progress")
	ErrRecording    = fmt.Errorf("recording already in progress")
	ErrClosed       = fmt.Errorf("session closed")
)

// Store is the persistence surface a session drives.
type Store interface {
	InterviewByToken(ctx context.Context, token string) (*models.InterviewDetail, error)
	StartInterview(ctx context.Context, id, token string, at int64) error
	SubmitResponse(ctx context.Context, r *models.InterviewResponse) error
	CompleteInterview(ctx context.Context, iv *models.Interview, at int64) error
}

// Session runs one candidate through the interview: welcome, then for each
// question a record/review cycle, then thankyou. Redo within review discards
// the take and never advances the index; Confirm persists a response row and
// moves forward. All methods are safe for concurrent use; the auto-stop
// timer races manual stop and whichever lands first wins.
type Session struct {
	mu sync.Mutex

	token  string
	detail models.InterviewDetail
	store  Store
	clock  Clock
	caps   speech.Capabilities

	maxRecording time.Duration
	speakDelay   time.Duration

	step  Step
	index int

	recording      bool
	recordingStart time.Time
	autoStop       Timer
	speakTimer     Timer
	transcript     []string

	pendingDuration   int
	pendingTranscript string

	closed bool
}

// Config carries the per-surface session tunables.
type Config struct {
	MaxRecording time.Duration
	SpeakDelay   time.Duration
}

func newSession(detail models.InterviewDetail, store Store, clock Clock, caps speech.Capabilities, cfg Config) *Session {
	step := StepWelcome
	// a completed interview resumes at thankyou; there is no way to retake it
	if detail.Status == models.InterviewCompleted {
		step = StepThankYou
	}
	return &Session{
		token:        detail.InterviewToken,
		detail:       detail,
		store:        store,
		clock:        clock,
		caps:         caps,
		maxRecording: cfg.MaxRecording,
		speakDelay:   cfg.SpeakDelay,
		step:         step,
	}
}

// Snapshot is the read view served to the candidate client.
type Snapshot struct {
	Step             Step   `json:"step"`
	QuestionIndex    int    `json:"question_index"`
	TotalQuestions   int    `json:"total_questions"`
	Progress         int    `json:"progress"`
	QuestionText     string `json:"question_text,omitempty"`
	Recording        bool   `json:"recording"`
	ElapsedSeconds   int    `json:"elapsed_seconds"`
	ReviewTranscript string `json:"review_transcript,omitempty"`
	ReviewDuration   int    `json:"review_duration,omitempty"`
}

func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Step:           s.step,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.detail.Questions),
		Recording:      s.recording,
	}
	if s.step == StepQuestion || s.step == StepReview {
		snap.Progress = progress(s.index, len(s.detail.Questions))
		snap.QuestionText = s.detail.Questions[s.index]
	}
	if s.step == StepThankYou {
		snap.Progress = 100
	}
	if s.recording {
		snap.ElapsedSeconds = int(s.clock.Now().Sub(s.recordingStart).Seconds())
	}
	if s.step == StepReview {
		snap.ReviewTranscript = s.pendingTranscript
		snap.ReviewDuration = s.pendingDuration
	}
	return snap
}

// progress is the percentage shown while question i (0-based) of n is
// active: the current question counts as underway, so one question in five
// reads 20, not 0.
func progress(i, n int) int {
	if n == 0 {
		return 0
	}
	return (100*(i+1) + n/2) / n
}

// Begin moves welcome to the first question and marks the interview
// In Progress. Calling it again after the session left welcome is an error.
func (s *Session) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.step != StepWelcome {
		return fmt.Errorf("%w: begin from %q", ErrWrongStep, s.step)
	}
	if len(s.detail.Questions) == 0 {
		return fmt.Errorf("interview %s has no questions", s.detail.ID)
	}

	at := s.clock.Now().UTC().Unix()
	if err := s.store.StartInterview(ctx, s.detail.ID, s.token, at); err != nil {
		return fmt.Errorf("mark interview started: %w", err)
	}

	s.step = StepQuestion
	s.index = 0
	s.scheduleSpeakLocked()
	return nil
}

// scheduleSpeakLocked queues the current question for playback after the
// speak delay. Caller holds s.mu.
func (s *Session) scheduleSpeakLocked() {
	if s.caps.Synthesizer == nil {
		return
	}
	if s.speakTimer != nil {
		s.speakTimer.Stop()
	}
	text := s.detail.Questions[s.index]
	syn := s.caps.Synthesizer
	s.speakTimer = s.clock.AfterFunc(s.speakDelay, func() {
		_ = syn.Speak(text, speech.DefaultSpeakOptions())
	})
}

// StartRecording begins capture for the current question and arms the
// auto-stop timer at the recording ceiling.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.step != StepQuestion {
		return fmt.Errorf("%w: record from %q", ErrWrongStep, s.step)
	}
	if s.recording {
		return ErrRecording
	}

	if s.caps.Synthesizer != nil {
		s.caps.Synthesizer.Cancel()
	}
	if s.speakTimer != nil {
		s.speakTimer.Stop()
		s.speakTimer = nil
	}

	s.transcript = nil
	if s.caps.Recognizer != nil {
		if err := s.caps.Recognizer.Start(s.onResult, func() {}); err != nil {
			return fmt.Errorf("start recognizer: %w", err)
		}
	}
	if s.caps.Recorder != nil {
		if err := s.caps.Recorder.Start(nil); err != nil {
			if s.caps.Recognizer != nil {
				s.caps.Recognizer.Stop()
			}
			return fmt.Errorf("start recorder: %w", err)
		}
	}

	s.recording = true
	s.recordingStart = s.clock.Now()
	s.autoStop = s.clock.AfterFunc(s.maxRecording, func() {
		s.finishRecording()
	})
	return nil
}

func (s *Session) onResult(r speech.Result) {
	if !r.Final {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		s.transcript = append(s.transcript, r.Text)
	}
}

// StopRecording ends the take manually and moves to review.
func (s *Session) StopRecording() error {
	s.mu.Lock()
	recording := s.recording
	s.mu.Unlock()
	if !recording {
		return ErrNotRecording
	}
	s.finishRecording()
	return nil
}

// finishRecording is shared by manual stop and the auto-stop timer; the
// loser of the race finds recording already cleared and returns.
func (s *Session) finishRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recording {
		return
	}
	s.recording = false
	if s.autoStop != nil {
		s.autoStop.Stop()
		s.autoStop = nil
	}

	if s.caps.Recognizer != nil {
		s.caps.Recognizer.Stop()
	}
	if s.caps.Recorder != nil {
		_, _ = s.caps.Recorder.Stop()
	}

	elapsed := int(s.clock.Now().Sub(s.recordingStart).Seconds())
	max := int(s.maxRecording.Seconds())
	if elapsed > max {
		elapsed = max
	}

	s.pendingDuration = elapsed
	s.pendingTranscript = strings.TrimSpace(strings.Join(s.transcript, " "))
	s.step = StepReview
}

// Redo discards the reviewed take and returns to the same question. The
// question index never moves backward or forward here.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.step != StepReview {
		return fmt.Errorf("%w: redo from %q", ErrWrongStep, s.step)
	}

	s.pendingTranscript = ""
	s.pendingDuration = 0
	s.transcript = nil
	s.step = StepQuestion
	s.scheduleSpeakLocked()
	return nil
}

// Confirm persists the reviewed take as a response row, then either advances
// to the next question or completes the interview. An empty transcript is
// stored as the duration placeholder, never as an empty string.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.step != StepReview {
		return fmt.Errorf("%w: confirm from %q", ErrWrongStep, s.step)
	}

	text := s.pendingTranscript
	if text == "" {
		text = Placeholder(s.pendingDuration)
	}
	resp := &models.InterviewResponse{
		InterviewID:     s.detail.ID,
		QuestionIndex:   s.index,
		QuestionText:    s.detail.Questions[s.index],
		ResponseText:    text,
		DurationSeconds: s.pendingDuration,
	}
	if err := s.store.SubmitResponse(ctx, resp); err != nil {
		return fmt.Errorf("persist response: %w", err)
	}

	s.pendingTranscript = ""
	s.pendingDuration = 0
	s.transcript = nil

	if s.index+1 < len(s.detail.Questions) {
		s.index++
		s.step = StepQuestion
		s.scheduleSpeakLocked()
		return nil
	}

	at := s.clock.Now().UTC().Unix()
	if err := s.store.CompleteInterview(ctx, &s.detail.Interview, at); err != nil {
		return fmt.Errorf("complete interview: %w", err)
	}
	s.step = StepThankYou
	return nil
}

// Placeholder is the stored response text when no transcript was captured.
func Placeholder(seconds int) string {
	return fmt.Sprintf("Audio response recorded (%d:%02d)", seconds/60, seconds%60)
}

// Close stops timers and capture. The session accepts no further operations.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.autoStop != nil {
		s.autoStop.Stop()
		s.autoStop = nil
	}
	if s.speakTimer != nil {
		s.speakTimer.Stop()
		s.speakTimer = nil
	}
	if s.recording {
		s.recording = false
		if s.caps.Recognizer != nil {
			s.caps.Recognizer.Stop()
		}
		if s.caps.Recorder != nil {
			_, _ = s.caps.Recorder.Stop()
		}
	}
	if s.caps.Synthesizer != nil {
		s.caps.Synthesizer.Cancel()
	}
}
