// Package cli is the interactive terminal front-end. It maps line commands
// onto the api client and the attempt flow; all state it holds is the current
// session and the open journal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/auth"
	"github.com/examportal/examterm/internal/config"
	"github.com/examportal/examterm/internal/journal"
	"github.com/examportal/examterm/internal/model"
)

// App is one interactive client instance.
type App struct {
	client  *api.Client
	cfg     *config.Config
	journal *journal.Journal
	log     zerolog.Logger

	session *auth.Session

	in    *bufio.Reader
	rawIn io.Reader
	out   io.Writer
}

// New builds the App. journal may be nil, in which case attempts are not
// recorded locally.
func New(client *api.Client, cfg *config.Config, jnl *journal.Journal, log zerolog.Logger) *App {
	return &App{
		client:  client,
		cfg:     cfg,
		journal: jnl,
		log:     log.With().Str("component", "cli").Logger(),
	}
}

// Run reads commands from in until exit or EOF.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	a.in = bufio.NewReader(in)
	a.rawIn = in
	a.out = out

	fmt.Fprintf(out, "examterm\nportal=%s\n\n", a.cfg.PortalURL)
	a.printHelp()

	for {
		fmt.Fprint(out, "\n> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		if command == "exit" || command == "quit" {
			return nil
		}
		if err := a.dispatch(ctx, command, args[1:]); err != nil {
			fmt.Fprintf(out, "error: %v\n", describeError(err, a.cfg.PortalURL))
		}
	}
}

func (a *App) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		a.printHelp()
		return nil
	case "login":
		return a.runLogin(ctx, args)
	case "logout":
		a.runLogout()
		return nil
	case "register":
		return a.runRegister(ctx)
	case "whoami":
		return a.runWhoami()
	case "exams":
		return a.runExams(ctx, args)
	case "exam":
		return a.runExam(ctx, args)
	case "take":
		return a.runTake(ctx, args)
	case "results":
		return a.runResults(ctx, args)
	case "history":
		return a.runHistory(ctx, args)
	case "notifications":
		return a.runNotifications(ctx, args)
	case "read":
		return a.runRead(ctx, args)
	case "watch":
		return a.runWatch(ctx)
	case "create-exam":
		return a.runCreateExam(ctx)
	case "add-question":
		return a.runAddQuestion(ctx, args)
	case "publish", "activate", "unpublish":
		return a.runTransition(ctx, command, args)
	case "import-questions":
		return a.runImportQuestions(ctx, args)
	case "csv-template":
		return a.runCSVTemplate(ctx, args)
	case "notify":
		return a.runNotify(ctx, args)
	default:
		fmt.Fprintln(a.out, "unknown command. type 'help' for usage.")
		return nil
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  help")
	fmt.Fprintln(a.out, "  login <username>")
	fmt.Fprintln(a.out, "  logout")
	fmt.Fprintln(a.out, "  register")
	fmt.Fprintln(a.out, "  whoami")
	fmt.Fprintln(a.out, "  exams [all]")
	fmt.Fprintln(a.out, "  exam <exam_id>")
	fmt.Fprintln(a.out, "  take <exam_id>")
	fmt.Fprintln(a.out, "  results [exam_id]")
	fmt.Fprintln(a.out, "  history [limit]")
	fmt.Fprintln(a.out, "  notifications [all]")
	fmt.Fprintln(a.out, "  read <notification_id>")
	fmt.Fprintln(a.out, "  watch")
	if a.isStaff() {
		fmt.Fprintln(a.out, "  create-exam")
		fmt.Fprintln(a.out, "  add-question <exam_id>")
		fmt.Fprintln(a.out, "  publish|activate|unpublish <exam_id>")
		fmt.Fprintln(a.out, "  import-questions <exam_id> <csv_file>")
		fmt.Fprintln(a.out, "  csv-template [file]")
		fmt.Fprintln(a.out, "  notify <exam_id>")
	}
	fmt.Fprintln(a.out, "  exit")
}

// requireSession returns the active session or ErrNotLoggedIn. An expired
// token is dropped here rather than bounced by the server mid-command.
func (a *App) requireSession() (*auth.Session, error) {
	if a.session == nil {
		return nil, auth.ErrNotLoggedIn
	}
	if a.session.Expired(time.Now()) {
		fmt.Fprintln(a.out, "session expired, please log in again")
		a.session = nil
		return nil, auth.ErrNotLoggedIn
	}
	return a.session, nil
}

func (a *App) isStaff() bool {
	if a.session == nil {
		return false
	}
	role := a.session.User.Role
	return role == model.RoleAdmin || role == model.RoleTeacher
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	username := ""
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		username, err = a.promptLine("username: ")
		if err != nil {
			return err
		}
	}

	password, err := a.promptPassword("password: ")
	if err != nil {
		return err
	}

	session, err := auth.Login(ctx, a.client, a.log, username, password)
	if err != nil {
		return err
	}
	a.session = session
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", session.User.Username, session.User.Role)
	return nil
}

func (a *App) runLogout() {
	if a.session == nil {
		fmt.Fprintln(a.out, "not logged in")
		return
	}
	auth.Logout(a.session, a.log)
	a.session = nil
	fmt.Fprintln(a.out, "logged out")
}

func (a *App) runRegister(ctx context.Context) error {
	username, err := a.promptLine("username: ")
	if err != nil {
		return err
	}
	email, err := a.promptLine("email: ")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("password: ")
	if err != nil {
		return err
	}

	user, err := a.client.Register(ctx, model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (id %d), you can now log in\n", user.Username, user.ID)
	return nil
}

func (a *App) runWhoami() error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d, role %s)\n", session.User.Username, session.User.ID, session.User.Role)
	if !session.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "token expires %s\n", session.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) runExams(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}

	var exams []model.Exam
	if len(args) > 0 && strings.EqualFold(args[0], "all") && a.isStaff() {
		exams, err = a.client.ListExams(ctx, session.Credential)
	} else {
		exams, err = a.client.ListActiveExams(ctx, session.Credential)
	}
	if err != nil {
		return err
	}

	if len(exams) == 0 {
		fmt.Fprintln(a.out, "No exams available.")
		return nil
	}
	for _, exam := range exams {
		fmt.Fprintf(a.out, "%d. %s [%s] %d min, %d marks (pass %d)\n",
			exam.ID, exam.Title, exam.Status, exam.DurationMinutes, exam.TotalMarks, exam.PassingMarks)
	}
	return nil
}

func (a *App) runExam(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, "exam <exam_id>")
	if err != nil {
		return err
	}

	exam, err := a.client.GetExam(ctx, session.Credential, examID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s [%s]\n", exam.Title, exam.Status)
	if exam.Description != "" {
		fmt.Fprintln(a.out, exam.Description)
	}
	fmt.Fprintf(a.out, "duration: %d min, total marks: %d, passing marks: %d\n",
		exam.DurationMinutes, exam.TotalMarks, exam.PassingMarks)

	completed, err := a.client.CheckExamCompleted(ctx, session.Credential, session.User.ID, exam.ID)
	if err != nil {
		a.log.Debug().Err(err).Msg("completion check failed")
		return nil
	}
	if completed {
		fmt.Fprintln(a.out, "you have already completed this exam")
	}
	return nil
}

func (a *App) runResults(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}

	var results []model.Result
	if len(args) > 0 && a.isStaff() {
		examID, err := parseID(args, 0, "results [exam_id]")
		if err != nil {
			return err
		}
		results, err = a.client.ListResultsByExam(ctx, session.Credential, examID)
		if err != nil {
			return err
		}
		return a.printResults(results)
	}

	results, err = a.client.ListResultsByUser(ctx, session.Credential, session.User.ID)
	if err != nil {
		return err
	}
	return a.printResults(results)
}

func (a *App) printResults(results []model.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No results.")
		return nil
	}
	for _, result := range results {
		fmt.Fprintf(a.out, "exam %d user %d: %d/%d (%.1f%%) %s\n",
			result.ExamID, result.UserID, result.Score, result.TotalMarks, result.Percentage, result.Status)
	}
	return nil
}

func (a *App) runHistory(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}
	if a.journal == nil {
		fmt.Fprintln(a.out, "local journal is not available")
		return nil
	}

	limit := 20
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := a.journal.ListByUser(ctx, session.User.ID, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No journaled attempts.")
		return nil
	}
	for _, entry := range entries {
		marker := ""
		if !entry.Persisted {
			marker = " (not persisted to portal)"
		}
		fmt.Fprintf(a.out, "%s  %s: %d/%d (%.1f%%)%s\n",
			entry.SubmittedAt.Format("2006-01-02 15:04"),
			entry.ExamTitle, entry.Score, entry.TotalMarks, entry.Percentage, marker)
	}
	return nil
}

func (a *App) runNotifications(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}

	var notifications []model.Notification
	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		notifications, err = a.client.ListNotifications(ctx, session.Credential, session.User.ID)
	} else {
		notifications, err = a.client.ListUnreadNotifications(ctx, session.Credential, session.User.ID)
	}
	if err != nil {
		return err
	}

	if len(notifications) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return nil
	}
	for _, n := range notifications {
		marker := "*"
		if n.IsRead {
			marker = " "
		}
		fmt.Fprintf(a.out, "%s %d. %s: %s\n", marker, n.ID, n.Title, n.Message)
	}
	return nil
}

func (a *App) runRead(ctx context.Context, args []string) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}
	notificationID, err := parseID(args, 0, "read <notification_id>")
	if err != nil {
		return err
	}
	if err := a.client.MarkNotificationRead(ctx, session.Credential, notificationID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "marked read")
	return nil
}

// runWatch polls unread notifications until the user presses enter.
func (a *App) runWatch(ctx context.Context) error {
	session, err := a.requireSession()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "watching notifications every %s, press enter to stop\n", a.cfg.PollInterval)

	stop := make(chan struct{})
	go func() {
		_, _ = a.in.ReadString('\n')
		close(stop)
	}()

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	seen := make(map[int64]bool)
	poll := func() {
		notifications, err := a.client.ListUnreadNotifications(ctx, session.Credential, session.User.ID)
		if err != nil {
			a.log.Debug().Err(err).Msg("notification poll failed")
			return
		}
		for _, n := range notifications {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			fmt.Fprintf(a.out, "* %d. %s: %s\n", n.ID, n.Title, n.Message)
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

func parseID(args []string, index int, usage string) (int64, error) {
	if len(args) <= index {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[index])
	}
	return id, nil
}

// describeError turns transport sentinel failures into a message that names
// the portal instead of a raw dial error.
func describeError(err error, portalURL string) error {
	if errors.Is(err, api.ErrUnavailable) {
		return fmt.Errorf("portal unreachable at %s", portalURL)
	}
	return err
}
