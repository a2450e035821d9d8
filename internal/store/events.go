package store

// EventType names what changed in the store.
type EventType string

const (
	EventLoaded      EventType = "loaded"
	EventAdded       EventType = "added"
	EventUpdated     EventType = "updated"
	EventToggled     EventType = "toggled"
	EventDeleted     EventType = "deleted"
	EventCleared     EventType = "cleared"
	EventArchived    EventType = "archived"
	EventViewChanged EventType = "view_changed"
)

// Event describes a state change. TaskIDs lists the affected tasks, if any.
type Event struct {
	Type    EventType
	TaskIDs []string
}

// Observer is called after every state change, outside the store lock.
// Observers may read from the store but must not block.
type Observer func(Event)

// Subscribe registers fn and returns a function that unregisters it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) notify(e Event) {
	s.obsMu.Lock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
