package store

import "github.com/hiroki-koketsu/taskcore/internal/model"

// View returns the current view state.
func (s *Store) View() model.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.view
	if v.Category != nil {
		c := *v.Category
		v.Category = &c
	}
	return v
}

// SetView replaces the whole view state.
func (s *Store) SetView(q model.Query) {
	if q.Category != nil {
		c := *q.Category
		q.Category = &c
	}
	s.updateView(func(v *model.Query) { *v = q })
}

// SetSearchText sets the search needle; empty disables search.
func (s *Store) SetSearchText(text string) {
	s.updateView(func(v *model.Query) { v.Search = text })
}

// SetFilter sets the status filter.
func (s *Store) SetFilter(f model.Filter) {
	s.updateView(func(v *model.Query) { v.Filter = f })
}

// SetCategory restricts the view to one category.
func (s *Store) SetCategory(c model.Category) {
	s.updateView(func(v *model.Query) { v.Category = &c })
}

// ClearCategory removes the category restriction.
func (s *Store) ClearCategory() {
	s.updateView(func(v *model.Query) { v.Category = nil })
}

// SetSortOption sets the view order.
func (s *Store) SetSortOption(o model.SortOption) {
	s.updateView(func(v *model.Query) { v.Sort = o })
}

// ResetFilters restores the default view. Nothing is saved.
func (s *Store) ResetFilters() {
	s.updateView(func(v *model.Query) { *v = model.DefaultQuery() })
}

func (s *Store) updateView(fn func(*model.Query)) {
	s.mu.Lock()
	fn(&s.view)
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}
