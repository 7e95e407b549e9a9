package walls

import (
	"sync"

	"chosenoffset.com/sightline/internal/core/geom"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrDuplicateEdge is returned when adding an edge whose ID is already stored
var ErrDuplicateEdge = errors.New("duplicate edge id")

// Store is the long-lived edge collection for a scene. Computations never
// read it directly; they take a Snapshot.
type Store struct {
	mu        sync.RWMutex
	edges     []*Edge
	index     map[string]int
	sceneRect geom.Rectangle
	innerRect geom.Rectangle
	snapshot  *Snapshot
}

// NewStore creates an empty store for a scene. An empty inner rectangle
// means the scene has no padding.
func NewStore(sceneRect, innerRect geom.Rectangle) *Store {
	s := &Store{index: make(map[string]int)}
	s.setBounds(sceneRect, innerRect)
	return s
}

func (s *Store) setBounds(sceneRect, innerRect geom.Rectangle) {
	if innerRect.Empty() || innerRect == (geom.Rectangle{}) {
		innerRect = sceneRect
	}
	s.sceneRect = sceneRect
	s.innerRect = innerRect
	s.snapshot = nil
}

// SetBounds changes the scene and inner rectangles
func (s *Store) SetBounds(sceneRect, innerRect geom.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setBounds(sceneRect, innerRect)
}

// SceneRect returns the outer scene rectangle
func (s *Store) SceneRect() geom.Rectangle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sceneRect
}

// InnerRect returns the playable area inside the scene padding
func (s *Store) InnerRect() geom.Rectangle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.innerRect
}

// Add stores copies of the given edges. Edges without an ID get one.
func (s *Store) Add(edges ...*Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(edges)
}

func (s *Store) add(edges []*Edge) error {
	seen := make(map[string]bool, len(edges))
	prepared := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		c := e.Clone()
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Type == "" {
			c.Type = TypeWall
		}
		if c.Type.IsBoundary() {
			return errors.Errorf("edge %s: boundary edges are generated from the scene rectangle", c.ID)
		}
		if _, ok := s.index[c.ID]; ok || seen[c.ID] {
			return errors.Wrapf(ErrDuplicateEdge, "edge %s", c.ID)
		}
		seen[c.ID] = true
		prepared = append(prepared, c)
	}

	for _, c := range prepared {
		s.index[c.ID] = len(s.edges)
		s.edges = append(s.edges, c)
	}
	if len(prepared) > 0 {
		s.snapshot = nil
	}
	return nil
}

// Remove deletes an edge by ID and reports whether it existed
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.edges); j++ {
		s.index[s.edges[j].ID] = j
	}
	s.snapshot = nil
	return true
}

// Update replaces a stored edge with a copy of e, matched by ID
func (s *Store) Update(e *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[e.ID]
	if !ok {
		return errors.Errorf("edge %s not found", e.ID)
	}
	s.edges[i] = e.Clone()
	s.snapshot = nil
	return nil
}

// Replace swaps the entire edge set
func (s *Store) Replace(edges []*Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldEdges, oldIndex := s.edges, s.index
	s.edges = nil
	s.index = make(map[string]int)
	if err := s.add(edges); err != nil {
		s.edges, s.index = oldEdges, oldIndex
		return err
	}
	s.snapshot = nil
	return nil
}

// Get returns a copy of the stored edge
func (s *Store) Get(id string) (*Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.edges[i].Clone(), true
}

// Len returns the number of stored edges, excluding boundaries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Edges returns copies of the stored edges in insertion order
func (s *Store) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Edge, len(s.edges))
	for i, e := range s.edges {
		out[i] = e.Clone()
	}
	return out
}

// Snapshot returns an immutable view of the store. The same Snapshot is
// returned until the store changes.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		s.snapshot = NewSnapshot(s.edges, s.sceneRect, s.innerRect)
	}
	return s.snapshot
}
