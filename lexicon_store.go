package textfeatures

import (
	"fmt"
	"sync"

	"github.com/tsawler/textfeatures/logging"
)

// LexiconStore loads lexicons on first use and caches them for the rest of
// the run. It is safe for concurrent use.
type LexiconStore struct {
	provider  ResourceProvider
	resources map[string]Resource
	lexicons  map[string]*Lexicon
	failed    map[string]error
	mutex     sync.RWMutex
	logger    logging.Logger
}

// NewLexiconStore creates a store that reads catalogue entries through
// provider. A nil provider serves only lexicons added with Add.
func NewLexiconStore(provider ResourceProvider, resources map[string]Resource) *LexiconStore {
	if resources == nil {
		resources = DefaultResources()
	}
	return &LexiconStore{
		provider:  provider,
		resources: resources,
		lexicons:  make(map[string]*Lexicon),
		failed:    make(map[string]error),
		logger:    logging.WithFields(logging.Fields{"component": "lexicons"}),
	}
}

// Add registers an already-built lexicon under its ID, replacing any
// cached one.
func (s *LexiconStore) Add(lex *Lexicon) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lexicons[lex.ID] = lex
	delete(s.failed, lex.ID)
}

// Get returns the lexicon with the given id, loading it on first call.
// Unknown or unreadable lexicons yield an error wrapping
// ErrLexiconNotFound; failures are remembered so a missing file is only
// reported once per store.
func (s *LexiconStore) Get(id string) (*Lexicon, error) {
	s.mutex.RLock()
	lex, ok := s.lexicons[id]
	failure := s.failed[id]
	s.mutex.RUnlock()
	if ok {
		return lex, nil
	}
	if failure != nil {
		return nil, failure
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if lex, ok := s.lexicons[id]; ok {
		return lex, nil
	}

	lex, err := s.load(id)
	if err != nil {
		s.failed[id] = err
		return nil, err
	}
	s.lexicons[id] = lex
	s.logger.Debug("lexicon loaded", logging.Fields{"lexicon": id, "words": lex.Len()})
	return lex, nil
}

func (s *LexiconStore) load(id string) (*Lexicon, error) {
	res, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown lexicon %q", ErrLexiconNotFound, id)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: %s (no resource provider)", ErrLexiconNotFound, id)
	}
	path, err := s.provider.Resolve(id)
	if err != nil {
		return nil, err
	}
	lex, err := LoadLexicon(id, path, res.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexiconNotFound, err)
	}
	return lex, nil
}
