package filter

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/debounce"
	"github.com/knowledge-engine/explorer/internal/document"
)

const (
	// DefaultQueryDelay is the quiet period after a keystroke.
	DefaultQueryDelay = 150 * time.Millisecond

	// DefaultClusterDelay is the quiet period after a cluster or range change.
	DefaultClusterDelay = 50 * time.Millisecond
)

// View is the result of one filter pass.
type View struct {
	SessionID   string
	Generation  uint64
	Criteria    Criteria
	Documents   []*document.Document
	Clusters    map[cluster.Method]cluster.Map
	Suggestions []string
}

// SessionConfig tunes a Session.
type SessionConfig struct {
	QueryDelay   time.Duration
	ClusterDelay time.Duration
	Methods      []cluster.Method
	Logger       *logrus.Entry
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.QueryDelay <= 0 {
		c.QueryDelay = DefaultQueryDelay
	}
	if c.ClusterDelay <= 0 {
		c.ClusterDelay = DefaultClusterDelay
	}
	if len(c.Methods) == 0 {
		c.Methods = cluster.DeterministicMethods()
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = logrus.NewEntry(l)
	}
	return c
}

// Session holds the interactive filter state over one immutable document
// snapshot. State changes schedule a debounced pass; a pass whose state
// was superseded before it finished is dropped.
type Session struct {
	ID string

	docs      []*document.Document
	clusterer *cluster.Engine
	config    SessionConfig
	logger    *logrus.Entry
	publish   func(View)
	debouncer *debounce.Debouncer

	mu       sync.Mutex
	criteria Criteria
	gen      atomic.Uint64

	publishMu sync.Mutex
	closed    bool
}

// NewSession starts a session over docs. publish receives every
// completed pass and may change the criteria, but must not call Refresh
// or Close.
func NewSession(docs []*document.Document, clusterer *cluster.Engine, cfg SessionConfig, publish func(View)) *Session {
	cfg = cfg.withDefaults()
	if clusterer == nil {
		clusterer = cluster.New(nil)
	}
	if publish == nil {
		publish = func(View) {}
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		docs:      docs,
		clusterer: clusterer,
		config:    cfg,
		logger:    cfg.Logger.WithFields(logrus.Fields{"component": "filter_session", "session": id}),
		publish:   publish,
		debouncer: debounce.New(),
		criteria:  DefaultCriteria(),
	}
}

// Criteria returns a copy of the current filter state.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.clone()
}

// SetQuery updates the text query and reschedules after QueryDelay.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	s.criteria.Query = q
	s.mu.Unlock()
	s.schedule(s.config.QueryDelay)
}

// ToggleCluster selects or deselects a primary cluster.
func (s *Session) ToggleCluster(pc document.PrimaryCluster) {
	s.mu.Lock()
	kept := s.criteria.Clusters[:0:0]
	removed := false
	for _, c := range s.criteria.Clusters {
		if c == pc {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		kept = append(kept, pc)
	}
	s.criteria.Clusters = kept
	s.mu.Unlock()
	s.schedule(s.config.ClusterDelay)
}

// SetRange replaces the complexity range. Out-of-order bounds are
// rejected without touching the state.
func (s *Session) SetRange(r Range) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.criteria.Range = r
	s.mu.Unlock()
	s.schedule(s.config.ClusterDelay)
	return nil
}

// Refresh cancels any pending pass and runs one synchronously.
func (s *Session) Refresh() View {
	s.debouncer.Cancel()
	gen := s.gen.Add(1)
	view := s.compute(gen)
	s.deliver(view)
	return view
}

// Close stops pending work. No views are published afterwards.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.publishMu.Lock()
	s.closed = true
	s.publishMu.Unlock()
}

func (s *Session) schedule(delay time.Duration) {
	gen := s.gen.Add(1)
	s.debouncer.Schedule(delay, func() {
		if s.gen.Load() != gen {
			return
		}
		s.deliver(s.compute(gen))
	})
}

func (s *Session) deliver(view View) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if s.closed || s.gen.Load() != view.Generation {
		s.logger.WithField("generation", view.Generation).Debug("Dropping superseded filter pass")
		return
	}
	s.publish(view)
}

func (s *Session) compute(gen uint64) View {
	criteria := s.Criteria()
	view := View{
		SessionID:   s.ID,
		Generation:  gen,
		Criteria:    criteria,
		Clusters:    make(map[cluster.Method]cluster.Map, len(s.config.Methods)),
		Suggestions: Suggestions(s.docs, criteria.Query),
	}

	docs, err := Filter(s.docs, criteria)
	if err != nil {
		// SetRange validates, so this only guards a zero-value session.
		s.logger.WithError(err).Warn("Filter pass rejected")
		return view
	}
	view.Documents = docs

	for _, m := range s.config.Methods {
		clusters, err := s.clusterer.Cluster(docs, m)
		if err != nil {
			s.logger.WithError(err).WithField("method", m).Warn("Skipping clustering method")
			continue
		}
		view.Clusters[m] = clusters
	}

	s.logger.WithFields(logrus.Fields{
		"generation": gen,
		"documents":  len(docs),
		"query":      criteria.Query,
	}).Debug("Filter pass complete")
	return view
}
