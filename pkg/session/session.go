// ABOUTME: Selection state for the journey browser
// ABOUTME: Episode selection plus a decision modal fed by background lookups

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/episode"
	"github.com/nainya/journeylens/pkg/journey"
)

// State of the browser
type State int

const (
	NoEpisodeSelected State = iota
	EpisodeSelected
	DecisionModalOpen
)

func (s State) String() string {
	switch s {
	case NoEpisodeSelected:
		return "no_episode_selected"
	case EpisodeSelected:
		return "episode_selected"
	case DecisionModalOpen:
		return "decision_modal_open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNoEpisode is returned when a decision is opened before any episode is selected
	ErrNoEpisode = errors.New("session: no episode selected")

	// ErrNotDecision is returned for messages without a decision tag
	ErrNotDecision = errors.New("session: message carries no decision")
)

// Outcome reports how a decision request ended
type Outcome struct {
	Trace *journey.DecisionTrace
	Err   error
	Stale bool // superseded by a newer request, selection or close
}

// View is a point-in-time copy of the session
type View struct {
	State        State
	EpisodeIndex int // -1 when nothing is selected
	Episode      *journey.Episode
	Chats        []journey.ChatMessage
	DateError    error // set when the episode's date range could not be read
	Trace        *journey.DecisionTrace
}

// Session tracks one user's selection
type Session struct {
	data   *journey.Dataset
	loader decision.Loader
	year   int
	log    zerolog.Logger

	mu        sync.Mutex
	index     int
	chats     []journey.ChatMessage
	dateErr   error
	trace     *journey.DecisionTrace
	requestID uint64
}

// Option configures a Session
type Option func(*Session)

// WithYear sets the reference year for episode dates.
func WithYear(year int) Option {
	return func(s *Session) { s.year = year }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a session with no episode selected.
func New(data *journey.Dataset, loader decision.Loader, opts ...Option) *Session {
	s := &Session{
		data:   data,
		loader: loader,
		year:   episode.DefaultYear,
		log:    zerolog.Nop(),
		index:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectEpisode selects the episode at index and recomputes its chats. A bad
// date range still selects the episode, with no chats and DateError set.
// Any open modal is closed and in-flight decision lookups become stale.
func (s *Session) SelectEpisode(index int) error {
	ep, ok := s.data.Episode(index)
	if !ok {
		return fmt.Errorf("%w: episode %d", journey.ErrNotFound, index)
	}

	chats, err := episode.Associate(ep, s.data.Chats, s.year)
	if err != nil {
		s.log.Warn().Err(err).Int("episode", index).Str("date_range", ep.DateRange).
			Msg("Invalid date format in episode")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.chats = chats
	s.dateErr = err
	s.trace = nil
	s.requestID++
	return nil
}

// OpenDecision looks up the decision tagged in text in the background. The
// returned channel yields one Outcome and is then closed. The modal opens only
// if no newer request, selection or close happened meanwhile; failures are
// logged and leave the state untouched.
func (s *Session) OpenDecision(ctx context.Context, text string) <-chan Outcome {
	out := make(chan Outcome, 1)

	s.mu.Lock()
	if s.index < 0 {
		s.mu.Unlock()
		out <- Outcome{Err: ErrNoEpisode}
		close(out)
		return out
	}
	id, ok := decision.ExtractID(text)
	if !ok {
		s.mu.Unlock()
		out <- Outcome{Err: ErrNotDecision}
		close(out)
		return out
	}
	s.requestID++
	req := s.requestID
	s.mu.Unlock()

	go func() {
		defer close(out)

		trace, err := decision.Resolve(ctx, s.loader, text)
		if err != nil {
			s.log.Warn().Err(err).Str("decision_id", id).Msg("Could not load decision trace")
			out <- Outcome{Err: err}
			return
		}

		s.mu.Lock()
		stale := req != s.requestID
		if !stale {
			s.trace = trace
		}
		s.mu.Unlock()

		if stale {
			s.log.Debug().Str("decision_id", id).Msg("Dropping stale decision trace")
		}
		out <- Outcome{Trace: trace, Stale: stale}
	}()

	return out
}

// CloseDecision closes the modal and keeps the selected episode's chats.
func (s *Session) CloseDecision() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = nil
	s.requestID++
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:        NoEpisodeSelected,
		EpisodeIndex: s.index,
		DateError:    s.dateErr,
		Trace:        s.trace,
	}
	if s.index >= 0 {
		ep := s.data.Episodes[s.index]
		v.Episode = &ep
		v.Chats = s.chats
		v.State = EpisodeSelected
	}
	if s.trace != nil {
		v.State = DecisionModalOpen
	}
	return v
}
