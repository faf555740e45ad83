// Package attempt implements the exam-taking session flow: load, countdown,
// answer capture, local scoring and submission. Everything runs on one
// logical actor; network calls are the only suspension points.
package attempt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

var ErrNotInitialized = errors.New("attempt not initialized")

// Runner orchestrates one attempt end to end. Initialization is sequential
// (exam, then questions, then session) with a fallback per step; the countdown
// stays gated until initialization finishes; submission happens exactly once,
// whether triggered manually or by expiry.
type Runner struct {
	loader    *Loader
	sessions  *SessionAdapter
	submitter *Submitter
	log       zerolog.Logger

	cred api.Credential
	user model.User
	tick time.Duration

	mu           sync.Mutex
	exam         model.Exam
	questions    []model.Question
	sheet        *AnswerSheet
	countdown    *Countdown
	ref          SessionRef
	degradations []string
	initialized  bool
	submitted    bool
	outcome      Outcome
	stopClock    context.CancelFunc

	expired chan Outcome
}

// Option configures a Runner.
type Option func(*Runner)

// WithTickInterval overrides the one-second wall clock tick. Tests use this
// to run the countdown quickly; the decrement per tick stays exactly one.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.tick = d
		}
	}
}

// NewRunner builds a Runner for one user's attempt.
func NewRunner(client *api.Client, cred api.Credential, user model.User, log zerolog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		loader:    NewLoader(client, log),
		sessions:  NewSessionAdapter(client, log),
		submitter: NewSubmitter(client, log),
		log:       log.With().Str("component", "attempt").Logger(),
		cred:      cred,
		user:      user,
		tick:      time.Second,
		sheet:     NewAnswerSheet(),
		expired:   make(chan Outcome, 1),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Initialize runs the sequential startup: load exam and questions (degrading
// to placeholders), then create and start the backend session (degrading to
// a fallback ref). Only authentication failures return an error; everything
// else leaves the attempt ready with its degradations recorded.
func (r *Runner) Initialize(ctx context.Context, examID int64) error {
	load := r.loader.Load(ctx, r.cred, examID)
	if load.State == LoadStateFatal {
		return load.Err
	}

	durationMinutes := int(load.Exam.Duration().Minutes())
	ref, reasons, err := r.sessions.Begin(ctx, r.cred, examID, r.user.ID, durationMinutes, len(load.Questions))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.exam = load.Exam
	r.questions = load.Questions
	r.ref = ref
	r.degradations = append(append([]string{}, load.Reasons...), reasons...)
	r.countdown = NewCountdown(durationMinutes * 60)
	r.initialized = true
	return nil
}

// Exam returns the loaded (or placeholder) exam metadata.
func (r *Runner) Exam() model.Exam {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exam
}

// Questions returns the loaded question list in order.
func (r *Runner) Questions() []model.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions
}

// Session returns the attempt's session ref.
func (r *Runner) Session() SessionRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ref
}

// Degradations lists everything that was masked during initialization.
func (r *Runner) Degradations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.degradations...)
}

// Answer records the selected option for a question, overwriting any prior
// choice.
func (r *Runner) Answer(questionID int64, value string) {
	r.sheet.Set(questionID, value)
}

// Answered returns the current answer for a question, if any.
func (r *Runner) Answered(questionID int64) (string, bool) {
	return r.sheet.Get(questionID)
}

// AnsweredCount returns how many questions have an answer.
func (r *Runner) AnsweredCount() int {
	return r.sheet.Count()
}

// Remaining returns the seconds left on the countdown.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	countdown := r.countdown
	r.mu.Unlock()
	if countdown == nil {
		return 0
	}
	return countdown.Remaining()
}

// Expired delivers the auto-submit outcome when the countdown reaches zero.
func (r *Runner) Expired() <-chan Outcome {
	return r.expired
}

// StartClock releases the countdown gate and starts the one-tick-per-second
// clock. At zero it submits the attempt exactly once and delivers the
// outcome on Expired. Calling StartClock before Initialize, or twice, is a
// no-op.
func (r *Runner) StartClock(ctx context.Context) {
	r.mu.Lock()
	if !r.initialized || r.stopClock != nil {
		r.mu.Unlock()
		return
	}
	clockCtx, cancel := context.WithCancel(ctx)
	r.stopClock = cancel
	countdown := r.countdown
	tick := r.tick
	r.mu.Unlock()

	countdown.Start()

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-clockCtx.Done():
				return
			case <-ticker.C:
				if !countdown.Tick() {
					continue
				}
				r.log.Info().Msg("time expired, auto-submitting attempt")
				outcome, first := r.Submit(ctx)
				if first {
					r.expired <- outcome
				}
				return
			}
		}
	}()
}

// Submit finalizes the attempt. The first call runs the full persistence
// path and stops the clock; every later call returns the stored outcome with
// first=false so a duplicate submit can never double-count.
func (r *Runner) Submit(ctx context.Context) (Outcome, bool) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return Outcome{}, false
	}
	if r.submitted {
		outcome := r.outcome
		r.mu.Unlock()
		return outcome, false
	}
	r.submitted = true
	if r.stopClock != nil {
		r.stopClock()
	}
	if r.countdown != nil {
		r.countdown.Stop()
	}
	exam := r.exam
	questions := r.questions
	ref := r.ref
	r.mu.Unlock()

	outcome := r.submitter.Submit(ctx, r.cred, r.user.ID, exam, ref, r.sheet.Snapshot(), questions)

	r.mu.Lock()
	r.outcome = outcome
	r.mu.Unlock()
	return outcome, true
}
