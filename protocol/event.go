package protocol

import (
	"sort"
)

// File is a source file handed to a scan, addressed by its root-relative slash path
type File struct {
	Path string
	Data []byte
}

// Occurrence locates one event reference
type Occurrence struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Sites maps an event name to the places it was seen
type Sites map[string][]Occurrence

func (s Sites) add(event, file string, line int) {
	s[event] = append(s[event], Occurrence{File: file, Line: line})
}

// Has reports whether event was seen
func (s Sites) Has(event string) bool {
	return len(s[event]) > 0
}

// Names returns the sorted event names
func (s Sites) Names() []string {
	ret := make([]string, 0, len(s))
	for name := range s {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// HandlerSite is a server listen call and whether it is isolated by an error boundary
type HandlerSite struct {
	Event   string
	File    string
	Line    int
	Guarded bool
	Snippet string
}

// ClientScan holds what the client sends and receives
type ClientScan struct {
	Emits   Sites
	Listens Sites
}

// ServerScan holds what the server handles and sends
type ServerScan struct {
	Handles  Sites
	Emits    Sites
	Handlers []HandlerSite
}

// Event is everything known about one event name across both sides
type Event struct {
	Name          string
	ClientEmits   []Occurrence
	ClientListens []Occurrence
	ServerHandles []Occurrence
	ServerEmits   []Occurrence
}

// Registry is the merged, read-only view of both scans
type Registry struct {
	events   map[string]*Event
	handlers []HandlerSite
}

// NewRegistry merges the client and server scans; either may be nil when its side was skipped
func NewRegistry(client *ClientScan, server *ServerScan) *Registry {
	ret := &Registry{events: make(map[string]*Event)}
	if client != nil {
		for name, sites := range client.Emits {
			ret.event(name).ClientEmits = append(ret.event(name).ClientEmits, sites...)
		}
		for name, sites := range client.Listens {
			ret.event(name).ClientListens = append(ret.event(name).ClientListens, sites...)
		}
	}
	if server != nil {
		for name, sites := range server.Handles {
			ret.event(name).ServerHandles = append(ret.event(name).ServerHandles, sites...)
		}
		for name, sites := range server.Emits {
			ret.event(name).ServerEmits = append(ret.event(name).ServerEmits, sites...)
		}
		ret.handlers = append(ret.handlers, server.Handlers...)
	}
	return ret
}

func (r *Registry) event(name string) *Event {
	ret, ok := r.events[name]
	if !ok {
		ret = &Event{Name: name}
		r.events[name] = ret
	}
	return ret
}

// Event returns the named event or nil
func (r *Registry) Event(name string) *Event {
	return r.events[name]
}

// Names returns every known event name, sorted
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.events))
	for name := range r.events {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Handlers returns server listen sites in scan order
func (r *Registry) Handlers() []HandlerSite {
	return r.handlers
}

func (r *Registry) filter(has func(e *Event) bool) []string {
	var ret []string
	for _, name := range r.Names() {
		if has(r.events[name]) {
			ret = append(ret, name)
		}
	}
	return ret
}

// ClientEmits returns sorted names the client sends
func (r *Registry) ClientEmits() []string {
	return r.filter(func(e *Event) bool { return len(e.ClientEmits) > 0 })
}

// ClientListens returns sorted names the client receives
func (r *Registry) ClientListens() []string {
	return r.filter(func(e *Event) bool { return len(e.ClientListens) > 0 })
}

// ServerHandles returns sorted names the server handles
func (r *Registry) ServerHandles() []string {
	return r.filter(func(e *Event) bool { return len(e.ServerHandles) > 0 })
}

// ServerEmits returns sorted names the server sends
func (r *Registry) ServerEmits() []string {
	return r.filter(func(e *Event) bool { return len(e.ServerEmits) > 0 })
}
