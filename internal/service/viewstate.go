package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// ViewStore holds the dashboard state of each session: the analysis
// results, the suggested issues, the in-flight analysis flag and pending
// toasts. It is bounded; the least recently used sessions are forgotten,
// except that a session with an analysis in flight keeps its state until
// the analysis ends.
type ViewStore struct {
	mu       sync.Mutex
	cache    *lru.Cache
	inFlight map[string]*ViewState
}

// NewViewStore creates a store for at most size sessions.
func NewViewStore(size int) (*ViewStore, error) {
	if size <= 0 {
		return nil, errors.New("service: view store size must be greater than 0")
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("service: creating view store: %w", err)
	}
	return &ViewStore{cache: cache, inFlight: make(map[string]*ViewState)}, nil
}

// Get returns the state of sessionID, creating it on first use.
func (s *ViewStore) Get(sessionID string) *ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID)
}

func (s *ViewStore) get(sessionID string) *ViewState {
	if v, ok := s.cache.Get(sessionID); ok {
		return v.(*ViewState)
	}
	st, ok := s.inFlight[sessionID]
	if !ok {
		st = &ViewState{}
	}
	s.cache.Add(sessionID, st)
	return st
}

// BeginAnalysis sets the analyzing flag of sessionID and pins its state
// until EndAnalysis. It returns false if an analysis is already running.
func (s *ViewStore) BeginAnalysis(sessionID string) (*ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(sessionID)
	if !st.TryBegin() {
		return st, false
	}
	s.inFlight[sessionID] = st
	return st, true
}

// EndAnalysis clears the analyzing flag and unpins st. A state evicted
// while pinned is put back, so the results of the analysis survive; a
// dropped session stays dropped.
func (s *ViewStore) EndAnalysis(sessionID string, st *ViewState) {
	st.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[sessionID] != st {
		return
	}
	delete(s.inFlight, sessionID)
	if !s.cache.Contains(sessionID) {
		s.cache.Add(sessionID, st)
	}
}

// Drop forgets sessionID. It is registered as a session OnClear hook.
func (s *ViewStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(sessionID)
	delete(s.inFlight, sessionID)
}

// Len is the number of sessions with state.
func (s *ViewStore) Len() int {
	return s.cache.Len()
}

// ViewState is one session's dashboard state. All access goes through its
// methods, which hold mu.
type ViewState struct {
	mu sync.Mutex

	analyzing     bool
	analyzed      bool
	analyzedRepos []model.AnalyzedRepo
	repoStats     model.RepoStats
	suggested     []model.SuggestedIssue
	toasts        []view.Toast
}

// ContributorState is a copy of a ViewState safe to hand to templates.
type ContributorState struct {
	Analyzing       bool                   `json:"analyzing"`
	HasAnalysis     bool                   `json:"hasAnalysis"`
	AnalyzedRepos   []model.AnalyzedRepo   `json:"analyzedRepos"`
	RepoStats       model.RepoStats        `json:"repoStats"`
	SuggestedIssues []model.SuggestedIssue `json:"suggestedIssues"`
}

// TryBegin sets the analyzing flag. It returns false if an analysis is
// already running for this session.
func (v *ViewState) TryBegin() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.analyzing {
		return false
	}
	v.analyzing = true
	return true
}

// End clears the analyzing flag.
func (v *ViewState) End() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.analyzing = false
}

// ApplyAnalysis replaces the analysis results in one step. Suggested
// issues are only replaced by a non-empty list.
func (v *ViewState) ApplyAnalysis(a *model.Analysis) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.analyzed = true
	v.analyzedRepos = slices.Clone(a.Repositories)
	v.repoStats = model.RepoStats{
		Total:         a.Stats.Total,
		Contributable: a.Stats.Contributable,
		Languages:     slices.Clone(a.Stats.Languages),
	}
	if len(a.SuggestedIssues) > 0 {
		v.suggested = slices.Clone(a.SuggestedIssues)
	}
}

// ReplaceSuggested sets the suggested issues, an empty list included.
func (v *ViewState) ReplaceSuggested(issues []model.SuggestedIssue) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggested = slices.Clone(issues)
}

// SuggestedIssue looks up a suggested issue by ID.
func (v *ViewState) SuggestedIssue(id int64) (model.SuggestedIssue, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, is := range v.suggested {
		if is.ID == id {
			return is, true
		}
	}
	return model.SuggestedIssue{}, false
}

// Snapshot copies the state.
func (v *ViewState) Snapshot() ContributorState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ContributorState{
		Analyzing:     v.analyzing,
		HasAnalysis:   v.analyzed,
		AnalyzedRepos: slices.Clone(v.analyzedRepos),
		RepoStats: model.RepoStats{
			Total:         v.repoStats.Total,
			Contributable: v.repoStats.Contributable,
			Languages:     slices.Clone(v.repoStats.Languages),
		},
		SuggestedIssues: slices.Clone(v.suggested),
	}
}

// PushToast queues toasts for the next page. A message already queued is
// not queued twice.
func (v *ViewState) PushToast(toasts ...view.Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, t := range toasts {
		if !slices.Contains(v.toasts, t) {
			v.toasts = append(v.toasts, t)
		}
	}
}

// TakeToasts returns and clears the queued toasts.
func (v *ViewState) TakeToasts() []view.Toast {
	v.mu.Lock()
	defer v.mu.Unlock()
	t := v.toasts
	v.toasts = nil
	return t
}
