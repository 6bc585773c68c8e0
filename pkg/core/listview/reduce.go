// Package listview holds a locally owned copy of a server-side list.
//
// A View is a cache, not a source of truth: it is replaced wholesale by a
// fetch and otherwise changes only through Commands issued in response to a
// confirmed successful action. Every change goes through Reduce, so each
// mutation is traceable to one command.
package listview

// Op identifies the kind of mutation a Command performs
type Op int

const (
	OpReplace Op = iota
	OpRemove
	OpUpdate
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	case OpUpdate:
		return "update"
	case OpClear:
		return "clear"
	}
	return "unknown"
}

// Command is a single mutation of a view
type Command[T any, K comparable] struct {
	Op     Op
	Items  []T       // OpReplace
	Key    K         // OpRemove, OpUpdate
	Mutate func(T) T // OpUpdate
}

// State is the held list plus whether any list has been loaded yet.
// A loaded empty list is distinct from nothing loaded.
type State[T any] struct {
	Items  []T
	Loaded bool
}

// Reduce applies cmd to st and returns the resulting state. st is never
// modified; item order is preserved by every command.
func Reduce[T any, K comparable](st State[T], cmd Command[T, K], keyOf func(T) K) State[T] {
	switch cmd.Op {
	case OpReplace:
		items := make([]T, len(cmd.Items))
		copy(items, cmd.Items)
		return State[T]{Items: items, Loaded: true}

	case OpClear:
		return State[T]{Items: []T{}, Loaded: true}

	case OpRemove:
		if !st.Loaded {
			return st
		}
		items := make([]T, 0, len(st.Items))
		for _, item := range st.Items {
			if keyOf(item) != cmd.Key {
				items = append(items, item)
			}
		}
		return State[T]{Items: items, Loaded: true}

	case OpUpdate:
		if !st.Loaded || cmd.Mutate == nil {
			return st
		}
		items := make([]T, len(st.Items))
		for i, item := range st.Items {
			if keyOf(item) == cmd.Key {
				item = cmd.Mutate(item)
			}
			items[i] = item
		}
		return State[T]{Items: items, Loaded: true}
	}
	return st
}
