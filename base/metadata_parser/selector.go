package metadata_parser

import (
	"sync"
)

// Selector picks a parser by the verified collection (group) of a mint
type Selector struct {
	defaultParser MetadataParser

	mu      sync.RWMutex
	mapping map[string]MetadataParser
}

func NewSelector(defaultParser MetadataParser) *Selector {
	return &Selector{
		defaultParser: defaultParser,
		mapping:       make(map[string]MetadataParser),
	}
}

func (s *Selector) Add(group string, parser MetadataParser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapping[group] = parser
}

func (s *Selector) GetParser(group string) MetadataParser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if parser, ok := s.mapping[group]; ok && group != "" {
		return parser
	}
	return s.defaultParser
}

// InitializeSelector registers a trait mapping for every configured group
func InitializeSelector(s *Selector, traitsByGroup map[string]TraitNames) {
	for group, traits := range traitsByGroup {
		s.Add(group, NewDefaultParser(traits))
	}
}
