package attempt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
)

// fallbackPrefix marks locally synthesized session identifiers. A fallback
// session has no backend record and never reaches backend submitted state.
const fallbackPrefix = "fallback-"

// SessionRef identifies the attempt's session: either a backend-tracked
// session (Real=true, RealID set) or a local placeholder identifier.
type SessionRef struct {
	ID     string
	Real   bool
	RealID int64
}

// IsFallback reports whether the ref is a local placeholder.
func (r SessionRef) IsFallback() bool {
	return strings.HasPrefix(r.ID, fallbackPrefix)
}

// SessionAdapter creates and starts backend attempt sessions, substituting a
// local placeholder when the session service rejects or is unreachable for
// any reason other than an authentication failure.
type SessionAdapter struct {
	client *api.Client
	log    zerolog.Logger
	now    func() time.Time
}

func NewSessionAdapter(client *api.Client, log zerolog.Logger) *SessionAdapter {
	return &SessionAdapter{
		client: client,
		log:    log.With().Str("component", "session_adapter").Logger(),
		now:    time.Now,
	}
}

// Begin creates then starts a session for (exam, user). On a non-auth error
// anywhere in that pair of calls it returns a fallback ref plus the
// degradation reason; a 401 returns an error and the flow must halt.
func (a *SessionAdapter) Begin(ctx context.Context, cred api.Credential, examID, userID int64, durationMinutes, totalQuestions int) (SessionRef, []string, error) {
	session, err := a.client.CreateSession(ctx, cred, examID, userID, durationMinutes, totalQuestions)
	if err != nil {
		return a.degrade(examID, "session create failed", err)
	}

	if err := a.client.StartSession(ctx, cred, session.ID); err != nil {
		return a.degrade(examID, "session start failed", err)
	}

	a.log.Debug().Int64("session_id", session.ID).Int64("exam_id", examID).Msg("session started")
	return SessionRef{
		ID:     strconv.FormatInt(session.ID, 10),
		Real:   true,
		RealID: session.ID,
	}, nil, nil
}

func (a *SessionAdapter) degrade(examID int64, step string, err error) (SessionRef, []string, error) {
	if api.IsUnauthorized(err) {
		a.log.Error().Err(err).Int64("exam_id", examID).Msg("authentication failed creating session")
		return SessionRef{}, nil, fmt.Errorf("authentication failed: %w", err)
	}

	ref := SessionRef{ID: fmt.Sprintf("%s%d-%d", fallbackPrefix, examID, a.now().UnixMilli())}
	a.log.Warn().Err(err).Str("session_id", ref.ID).Msg(step + ", continuing without backend tracking")
	return ref, []string{fmt.Sprintf("%s: %v", step, err)}, nil
}
