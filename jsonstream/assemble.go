package jsonstream

import (
	"io"
	"slices"
)

// Merged folds one (path, value) event into obj, building the intermediate
// containers as needed, and returns the updated object.  Index segments
// build lists, growing them with nils up to the index, and key segments
// build maps.  The empty path replaces obj with value.
func Merged(obj any, path Path, value any) any {
	if len(path) == 0 {
		return value
	}
	if i, ok := path[0].Index(); ok {
		list, _ := obj.([]any)
		for len(list) <= i {
			list = append(list, nil)
		}
		list[i] = Merged(list[i], path[1:], value)
		return list
	}
	k, _ := path[0].Key()
	m, ok := obj.(map[string]any)
	if !ok || m == nil {
		m = map[string]any{}
	}
	m[k] = Merged(m[k], path[1:], value)
	return m
}

// Assembled folds a whole event stream back into a Go value.  It is the
// inverse of streaming: assembling the events of a document reproduces
// what a whole-document decoder would have returned.
func Assembled(r EventReader) (any, error) {
	var obj any
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return obj, nil
		}
		if err != nil {
			return nil, err
		}
		obj = Merged(obj, ev.Path, ev.Value)
	}
}

// Grouped splits an event stream into consecutive groups of events sharing
// the same path prefix of the given length.  This is how a long array of
// records is consumed one record at a time: grouping at level 1 yields one
// group per element of the root array.
//
// Events whose path is shorter than the prefix length, such as the opening
// of the root array itself, are dropped.
func Grouped(source EventReader, level int) *Groups {
	return &Groups{source: source, level: level}
}

// Groups iterates over the groups of a Grouped stream.
type Groups struct {
	source  EventReader
	level   int
	pending *Event
	current *Group
}

// Next returns the shared path prefix of the next group and a reader for
// its events.  Any events left unread in the previous group are drained
// first, so a consumer can abandon a group half way and move on.  Next
// returns io.EOF after the last group.
func (g *Groups) Next() (Path, *Group, error) {
	if g.current != nil {
		for {
			_, err := g.current.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, nil, err
			}
		}
		g.current = nil
	}
	for {
		ev, err := g.readEvent()
		if err != nil {
			return nil, nil, err
		}
		if len(ev.Path) < g.level {
			continue
		}
		prefix := slices.Clone(ev.Path[:g.level])
		g.pending = &ev
		g.current = &Group{groups: g, prefix: prefix}
		return prefix, g.current, nil
	}
}

func (g *Groups) readEvent() (Event, error) {
	if g.pending != nil {
		ev := *g.pending
		g.pending = nil
		return ev, nil
	}
	return g.source.Next()
}

// A Group reads the events of one group.  Paths are relative to the group
// prefix.
type Group struct {
	groups *Groups
	prefix Path
	done   bool
}

var _ EventReader = &Group{}

// Next returns the next event of the group, with the group prefix removed
// from its path.  It returns io.EOF at the end of the group.
func (gr *Group) Next() (Event, error) {
	if gr.done {
		return Event{}, io.EOF
	}
	ev, err := gr.groups.readEvent()
	if err == io.EOF {
		gr.done = true
		return Event{}, io.EOF
	}
	if err != nil {
		return Event{}, err
	}
	if len(ev.Path) < gr.groups.level || !ev.Path.HasPrefix(gr.prefix) {
		// First event of the next group (or a short path ending this one):
		// put it back and close this group.
		gr.groups.pending = &ev
		gr.done = true
		return Event{}, io.EOF
	}
	return Event{Path: ev.Path[gr.groups.level:], Value: ev.Value}, nil
}
