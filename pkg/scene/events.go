package scene

import "sync/atomic"

// Event types dispatched by the hierarchy.
const (
	EventAdded   = "added"
	EventRemoved = "removed"
)

// Event is delivered to listeners. Target is set by DispatchEvent.
type Event struct {
	Type   string
	Target *Node
	Data   any
}

// ListenerID identifies a registered listener for removal.
type ListenerID int64

type listener struct {
	id ListenerID
	fn func(Event)
}

var nextListener atomic.Int64

// AddEventListener registers fn for events of type typ.
func (n *Node) AddEventListener(typ string, fn func(Event)) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]listener)
	}
	id := ListenerID(nextListener.Add(1))
	n.listeners[typ] = append(n.listeners[typ], listener{id: id, fn: fn})
	return id
}

// RemoveEventListener unregisters a listener. Unknown ids are ignored.
func (n *Node) RemoveEventListener(typ string, id ListenerID) {
	ls := n.listeners[typ]
	for i, l := range ls {
		if l.id == id {
			n.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// HasEventListener reports whether id is registered for typ.
func (n *Node) HasEventListener(typ string, id ListenerID) bool {
	for _, l := range n.listeners[typ] {
		if l.id == id {
			return true
		}
	}
	return false
}

// DispatchEvent calls every listener registered for e.Type, in
// registration order.
func (n *Node) DispatchEvent(e Event) {
	ls := n.listeners[e.Type]
	if len(ls) == 0 {
		return
	}
	e.Target = n
	// listeners may remove themselves
	for _, l := range append([]listener(nil), ls...) {
		l.fn(e)
	}
}
