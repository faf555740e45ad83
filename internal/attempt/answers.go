package attempt

import "sync"

// AnswerSheet is the in-memory answer map for one attempt. Keys are question
// ids; values are the selected option text exactly as chosen. Last write
// wins; there is no validation against the question's declared options.
type AnswerSheet struct {
	mu      sync.Mutex
	answers map[int64]string
}

func NewAnswerSheet() *AnswerSheet {
	return &AnswerSheet{answers: make(map[int64]string)}
}

// Set records or overwrites the answer for a question.
func (s *AnswerSheet) Set(questionID int64, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[questionID] = value
}

// Get returns the recorded answer, ok=false when the question is unanswered.
func (s *AnswerSheet) Get(questionID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.answers[questionID]
	return value, ok
}

// Count returns the number of answered questions.
func (s *AnswerSheet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Snapshot returns a copy of the answer map for scoring and submission.
func (s *AnswerSheet) Snapshot() map[int64]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[int64]string, len(s.answers))
	for id, value := range s.answers {
		snapshot[id] = value
	}
	return snapshot
}
