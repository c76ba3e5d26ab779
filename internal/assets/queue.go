package assets

import "strings"

// Queue records the handles enqueued while one page bundle is built. It is
// not safe for concurrent use and must not outlive the build.
type Queue struct {
	order map[Kind][]string
	seen  map[Kind]map[string]struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{
		order: map[Kind][]string{},
		seen:  map[Kind]map[string]struct{}{},
	}
}

// Enqueue appends handles of kind, ignoring blanks and repeats.
func (q *Queue) Enqueue(kind Kind, names ...string) {
	if q.seen[kind] == nil {
		q.seen[kind] = map[string]struct{}{}
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := q.seen[kind][name]; ok {
			continue
		}
		q.seen[kind][name] = struct{}{}
		q.order[kind] = append(q.order[kind], name)
	}
}

// Handles returns a copy of the enqueued handles of kind in enqueue order.
func (q *Queue) Handles(kind Kind) []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.order[kind]...)
}
