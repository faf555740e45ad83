package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/examportal/examterm/internal/attempt"
	"github.com/examportal/examterm/internal/model"
)

// runTake drives one exam attempt. Once the attempt is initialized the user
// is never blocked by a backend failure: load, session and submit problems
// all degrade, and the attempt always ends in a scored submission.
func (a *App) runTake(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, "take <exam_id>")
	if err != nil {
		return err
	}

	if completed, err := a.client.CheckExamCompleted(ctx, session.Credential, session.User.ID, examID); err == nil && completed {
		again, err := a.promptYesNo("you have already completed this exam. take it again? (yes/no): ")
		if err != nil || !again {
			return err
		}
	}

	runner := attempt.NewRunner(a.client, session.Credential, session.User, a.log)
	if err := runner.Initialize(ctx, examID); err != nil {
		return err
	}

	exam := runner.Exam()
	questions := runner.Questions()

	fmt.Fprintf(a.out, "\n%s\n", exam.Title)
	if exam.Description != "" {
		fmt.Fprintln(a.out, exam.Description)
	}
	fmt.Fprintf(a.out, "%d questions, %d minutes\n", len(questions), int(exam.Duration().Minutes()))
	for range runner.Degradations() {
		fmt.Fprintln(a.out, "note: running in practice mode, some exam data could not be loaded")
		break
	}

	begin, err := a.promptYesNo("begin? the timer starts now (yes/no): ")
	if err != nil {
		return err
	}
	if !begin {
		return nil
	}

	runner.StartClock(ctx)
	return a.examLoop(ctx, session.User.ID, runner, exam, questions)
}

func (a *App) examLoop(ctx context.Context, userID int64, runner *attempt.Runner, exam model.Exam, questions []model.Question) error {
	index := 0
	showQuestion := true

	for {
		// The clock runs independently and auto-submits on expiry. The
		// blocking read below cannot be interrupted, so an expiry that
		// fires mid-prompt is only reported at the next key press. The
		// latency affects the notice alone, not the submission.
		select {
		case outcome := <-runner.Expired():
			fmt.Fprintln(a.out, "\ntime is up, your answers were submitted automatically")
			a.finishAttempt(ctx, userID, exam, outcome)
			return nil
		default:
		}

		question := questions[index]
		if showQuestion {
			a.printQuestion(runner, question, index, len(questions))
		}
		showQuestion = true

		line, err := a.promptLine(fmt.Sprintf("[%s %d/%d answered] ",
			formatRemaining(runner.Remaining()), runner.AnsweredCount(), len(questions)))
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			showQuestion = false
			continue
		}
		command := strings.ToLower(args[0])

		switch {
		case isAnswerLetter(command, len(question.OptionList())):
			runner.Answer(question.ID, strings.ToUpper(command))
			if index < len(questions)-1 {
				index++
			} else {
				fmt.Fprintln(a.out, "last question answered, type 'submit' when ready")
				showQuestion = false
			}
		case command == "n" || command == "next":
			if index < len(questions)-1 {
				index++
			}
		case command == "p" || command == "prev":
			if index > 0 {
				index--
			}
		case command == "goto":
			target, err := strconv.Atoi(strings.Join(args[1:], ""))
			if err != nil || target < 1 || target > len(questions) {
				fmt.Fprintf(a.out, "goto takes a question number between 1 and %d\n", len(questions))
				showQuestion = false
				continue
			}
			index = target - 1
		case command == "status":
			a.printStatus(runner, questions)
			showQuestion = false
		case command == "submit":
			unanswered := len(questions) - runner.AnsweredCount()
			if unanswered > 0 {
				proceed, err := a.promptYesNo(fmt.Sprintf("%d questions unanswered, submit anyway? (yes/no): ", unanswered))
				if err != nil {
					return err
				}
				if !proceed {
					showQuestion = false
					continue
				}
			}
			outcome, first := runner.Submit(ctx)
			if !first {
				// Expiry won the race; the auto-submit outcome is authoritative.
				outcome = a.drainExpired(runner, outcome)
			}
			a.finishAttempt(ctx, userID, exam, outcome)
			return nil
		case command == "help":
			fmt.Fprintln(a.out, "answer with a letter, or: next, prev, goto <n>, status, submit")
			showQuestion = false
		default:
			fmt.Fprintln(a.out, "answer with a letter, or: next, prev, goto <n>, status, submit")
			showQuestion = false
		}
	}
}

func (a *App) printQuestion(runner *attempt.Runner, question model.Question, index, total int) {
	fmt.Fprintf(a.out, "\nQ%d/%d (%d marks): %s\n", index+1, total, question.MarksValue(), question.QuestionText)
	for _, option := range question.OptionList() {
		fmt.Fprintf(a.out, "  %s\n", option)
	}
	if answer, ok := runner.Answered(question.ID); ok {
		fmt.Fprintf(a.out, "  your answer: %s\n", answer)
	}
}

func (a *App) printStatus(runner *attempt.Runner, questions []model.Question) {
	fmt.Fprintf(a.out, "time remaining: %s\n", formatRemaining(runner.Remaining()))
	for i, question := range questions {
		answer, ok := runner.Answered(question.ID)
		if !ok {
			answer = "-"
		}
		fmt.Fprintf(a.out, "  Q%d: %s\n", i+1, answer)
	}
}

// drainExpired swaps in the auto-submit outcome if the clock fired between
// the user's submit command and the Submit call.
func (a *App) drainExpired(runner *attempt.Runner, fallback attempt.Outcome) attempt.Outcome {
	select {
	case outcome := <-runner.Expired():
		fmt.Fprintln(a.out, "time ran out just before your submit, the automatic submission counted")
		return outcome
	default:
		return fallback
	}
}

// finishAttempt reports the outcome and journals it. The message is always a
// success; degradations are surfaced as notes, never as a failure.
func (a *App) finishAttempt(ctx context.Context, userID int64, exam model.Exam, outcome attempt.Outcome) {
	summary := outcome.Summary
	fmt.Fprintln(a.out, "\nExam submitted successfully!")
	fmt.Fprintf(a.out, "score: %d/%d (%.1f%%), %d of %d correct\n",
		summary.Score, summary.TotalMarks, summary.Percentage, summary.CorrectCount, summary.TotalQuestions)
	fmt.Fprintf(a.out, "result: %s\n", passingVerdict(exam, summary.Score, summary.TotalMarks))

	if !outcome.ResultPersisted {
		fmt.Fprintln(a.out, "note: the portal did not confirm your result, it is kept in your local history")
	}

	if a.journal != nil {
		if err := a.journal.Record(ctx, uuid.NewString(), userID, exam, outcome); err != nil {
			a.log.Warn().Err(err).Msg("journal write failed")
		}
	}
}

// passingVerdict is display-only. The threshold comes from the exam record,
// defaulting to 60 percent when it carries no passing marks.
func passingVerdict(exam model.Exam, score, totalMarks int) model.PassingStatus {
	if totalMarks <= 0 {
		return model.PassingStatusPending
	}
	threshold := exam.PassingMarks
	if threshold <= 0 {
		threshold = (totalMarks * 60) / 100
	}
	if score >= threshold {
		return model.PassingStatusPass
	}
	return model.PassingStatusFail
}

func isAnswerLetter(command string, optionCount int) bool {
	if len(command) != 1 || optionCount < 1 {
		return false
	}
	letter := strings.ToUpper(command)[0]
	max := byte('A' + optionCount - 1)
	if max > 'Z' {
		max = 'Z'
	}
	return letter >= 'A' && letter <= max
}

func formatRemaining(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
