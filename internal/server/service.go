// Package server exposes the journey over HTTP and gRPC
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/internal/metrics"
	"github.com/nainya/journeylens/pkg/analytics"
	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/episode"
	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/query"
	"github.com/nainya/journeylens/pkg/session"
)

// ChatView is a chat message prepared for display
type ChatView struct {
	journey.ChatMessage
	Team       bool                  `json:"team"`
	DecisionID string                `json:"decision_id,omitempty"`
	Drivers    []journey.ChatMessage `json:"drivers,omitempty"`
}

// EpisodeChats is an episode with the chats of its window
type EpisodeChats struct {
	Index     int             `json:"index"`
	Episode   journey.Episode `json:"episode"`
	Chats     []ChatView      `json:"chats"`
	DateError string          `json:"date_error,omitempty"`
}

// Dashboard is the aggregated analytics view
type Dashboard struct {
	Report analytics.Report `json:"report"`
	Charts analytics.Charts `json:"charts"`
}

// Options configures a Service
type Options struct {
	Year    int
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Service answers journey questions for every transport
type Service struct {
	data      *journey.Dataset
	decisions decision.Loader
	year      int
	dashboard Dashboard

	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewService aggregates the dashboard once; the dataset never changes.
func NewService(data *journey.Dataset, decisions decision.Loader, opts Options) *Service {
	if opts.Year == 0 {
		opts.Year = episode.DefaultYear
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}

	report := analytics.Aggregate(data.Chats)
	if report.Skipped > 0 {
		opts.Logger.Warn("Chats with unreadable timestamps left out of monthly metrics").
			Int("skipped", report.Skipped).Send()
	}
	opts.Metrics.UpdateDatasetStats(len(data.Episodes), len(data.Chats))

	return &Service{
		data:      data,
		decisions: decisions,
		year:      opts.Year,
		dashboard: Dashboard{Report: report, Charts: analytics.BuildCharts(report)},
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Episodes returns all episodes in their bundled order.
func (s *Service) Episodes() []journey.Episode {
	return s.data.Episodes
}

// EpisodeChats returns the chats of episode index. A bad date range is
// reported in DateError with no chats; an unknown index is journey.ErrNotFound.
func (s *Service) EpisodeChats(index int) (*EpisodeChats, error) {
	ep, ok := s.data.Episode(index)
	if !ok {
		return nil, fmt.Errorf("%w: episode %d", journey.ErrNotFound, index)
	}

	result := &EpisodeChats{Index: index, Episode: ep}
	chats, err := episode.Associate(ep, s.data.Chats, s.year)
	if err != nil {
		s.log.Warn("Invalid date format in episode").Int("episode", index).Err(err).Send()
		s.metrics.RecordEpisodeSelection("date_error")
		result.DateError = err.Error()
	} else {
		s.metrics.RecordEpisodeSelection("ok")
	}
	result.Chats = s.chatViews(chats)
	return result, nil
}

// Dashboard returns the precomputed analytics.
func (s *Service) Dashboard() Dashboard {
	return s.dashboard
}

// Decision loads a decision trace and records the outcome.
func (s *Service) Decision(ctx context.Context, id string) (*journey.DecisionTrace, error) {
	start := time.Now()
	trace, err := s.decisions.Load(ctx, id)
	s.log.LogDataLoad("decision", time.Since(start), 1, err)

	switch {
	case err == nil:
		s.metrics.RecordDecisionLoad("ok")
	case errors.Is(err, journey.ErrNotFound):
		s.metrics.RecordDecisionLoad("not_found")
	default:
		s.metrics.RecordDecisionLoad("error")
	}
	return trace, err
}

// SearchChats runs q over all chats.
func (s *Service) SearchChats(q query.Query) []ChatView {
	return s.chatViews(query.Run(s.data.Chats, q))
}

// NewSession starts a browser session whose decision lookups go through the
// service.
func (s *Service) NewSession() *session.Session {
	return session.New(s.data, decision.LoaderFunc(s.Decision),
		session.WithYear(s.year),
		session.WithLogger(*s.log.Component("session").GetZerolog()),
	)
}

func (s *Service) chatViews(chats []journey.ChatMessage) []ChatView {
	views := make([]ChatView, len(chats))
	for i, c := range chats {
		v := ChatView{ChatMessage: c, Team: !c.IsMember()}
		if id, ok := decision.ExtractID(c.Text); ok {
			v.DecisionID = id
			for _, did := range decision.ExtractDrivers(c.Text) {
				if msg, ok := s.data.MessageByID(did); ok {
					v.Drivers = append(v.Drivers, msg)
				}
			}
		}
		views[i] = v
	}
	return views
}
