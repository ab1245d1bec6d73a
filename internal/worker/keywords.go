package worker

// AddKeyword adds a search term to the watch set (no-op when present).
func (w *Watcher) AddKeyword(keyword string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.keywords {
		if existing == keyword {
			return
		}
	}

	w.keywords = append(w.keywords, keyword)
}

// RemoveKeyword removes a search term and reports whether it was watched.
func (w *Watcher) RemoveKeyword(keyword string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, existing := range w.keywords {
		if existing == keyword {
			w.keywords = append(w.keywords[:i], w.keywords[i+1:]...)
			return true
		}
	}

	return false
}

// Keywords returns a copy of the current watch set.
func (w *Watcher) Keywords() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.keywords) == 0 {
		return nil
	}

	result := make([]string, len(w.keywords))
	copy(result, w.keywords)
	return result
}

// SetKeywords replaces the whole watch set.
func (w *Watcher) SetKeywords(keywords []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(keywords) == 0 {
		w.keywords = nil
		return
	}

	w.keywords = make([]string, len(keywords))
	copy(w.keywords, keywords)
}

// HasKeyword reports whether a search term is watched.
func (w *Watcher) HasKeyword(keyword string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.keywords {
		if existing == keyword {
			return true
		}
	}

	return false
}
