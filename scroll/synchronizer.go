// Package scroll keeps several independently scrollable regions at the same
// relative position.
package scroll

import (
	"curseddiff/logger"
)

// Region is anything with a vertical scroll offset, such as a viewport pane.
// ScrollRange is the largest valid offset; zero means the content fits.
type Region interface {
	Offset() float64
	SetOffset(offset float64)
	ScrollRange() float64
}

type state int

const (
	stateIdle state = iota
	stateScrolling
)

// String returns a human-readable name for the state
func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateScrolling:
		return "Scrolling"
	default:
		return "Unknown"
	}
}

// EventType represents the type of event fed to the synchronizer
type EventType string

const (
	EventScroll       EventType = "scroll"
	EventResize       EventType = "resize"
	EventPassComplete EventType = "pass_complete"
)

// Event is a scroll or resize notification. Region is empty for resize.
type Event struct {
	Type   EventType
	Region string
}

// maxPasses bounds how often a single user scroll is re-propagated when the
// source keeps moving while its own pass is running
const maxPasses = 8

// offsetEpsilon is the smallest offset change worth writing to a target
const offsetEpsilon = 1e-9

type namedRegion struct {
	name   string
	region Region
}

// Synchronizer propagates the scroll fraction of whichever region the user
// moved to every other registered region.
//
//	stateIdle
//	├─[Scroll(src), src scrollable]──► stateScrolling(src) ──[PassComplete]──► stateIdle
//	└─[Resize]──► reapply recorded fraction, stays idle
//
//	stateScrolling(src)
//	├─[Scroll(src)]──► marks pass dirty, the running pass loops again
//	├─[Scroll(other)]──► ignored
//	└─[Resize]──► marks pass dirty
//
// It is driven from a single event loop and is not safe for concurrent use.
type Synchronizer struct {
	regions []namedRegion

	state    state
	source   string
	dirty    bool
	fraction float64
	recorded bool
}

type transition struct {
	From   state
	Event  EventType
	Action func(*Synchronizer, Event)
}

var transitions = []transition{
	{stateIdle, EventScroll, (*Synchronizer).doBeginPass},
	{stateIdle, EventResize, (*Synchronizer).doReapply},

	{stateScrolling, EventScroll, (*Synchronizer).doReentrantScroll},
	{stateScrolling, EventResize, (*Synchronizer).doMarkDirty},
	{stateScrolling, EventPassComplete, (*Synchronizer).doEndPass},
}

type transitionKey struct {
	from  state
	event EventType
}

var transitionMap map[transitionKey]*transition

func init() {
	transitionMap = make(map[transitionKey]*transition, len(transitions))
	for i := range transitions {
		t := &transitions[i]
		transitionMap[transitionKey{from: t.From, event: t.Event}] = t
	}
}

// NewSynchronizer creates an idle synchronizer with no regions
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{state: stateIdle}
}

// Add registers a region under name. Re-adding a name replaces the region.
func (s *Synchronizer) Add(name string, r Region) {
	for i := range s.regions {
		if s.regions[i].name == name {
			s.regions[i].region = r
			return
		}
	}
	s.regions = append(s.regions, namedRegion{name: name, region: r})
}

// OnScroll reports that the named region's offset changed
func (s *Synchronizer) OnScroll(name string) {
	s.dispatch(Event{Type: EventScroll, Region: name})
}

// OnResize reports that one or more regions changed size
func (s *Synchronizer) OnResize() {
	s.dispatch(Event{Type: EventResize})
}

// Reset forgets the recorded fraction, typically when new content is loaded
func (s *Synchronizer) Reset() {
	s.fraction = 0
	s.recorded = false
}

// Fraction returns the last recorded scroll fraction and whether one exists
func (s *Synchronizer) Fraction() (float64, bool) {
	return s.fraction, s.recorded
}

func (s *Synchronizer) dispatch(event Event) bool {
	t := transitionMap[transitionKey{from: s.state, event: event.Type}]
	if t == nil {
		logger.Debug("scroll: no handler: state=%s event=%s", s.state, event.Type)
		return false
	}
	t.Action(s, event)
	return true
}

func (s *Synchronizer) lookup(name string) Region {
	for _, nr := range s.regions {
		if nr.name == name {
			return nr.region
		}
	}
	return nil
}

func (s *Synchronizer) doBeginPass(event Event) {
	src := s.lookup(event.Region)
	if src == nil {
		logger.Debug("scroll: unknown region %q", event.Region)
		return
	}
	if src.ScrollRange() <= 0 {
		return
	}

	s.state = stateScrolling
	s.source = event.Region

	for pass := 0; pass < maxPasses; pass++ {
		s.dirty = false
		s.record(src)
		s.apply(s.source)
		if !s.dirty {
			break
		}
	}
	if s.dirty {
		logger.Warn("scroll: region %q still moving after %d passes", s.source, maxPasses)
	}

	s.dispatch(Event{Type: EventPassComplete, Region: s.source})
}

func (s *Synchronizer) doReentrantScroll(event Event) {
	if event.Region == s.source {
		s.dirty = true
	}
}

func (s *Synchronizer) doMarkDirty(event Event) {
	s.dirty = true
}

func (s *Synchronizer) doEndPass(event Event) {
	s.state = stateIdle
	s.source = ""
	s.dirty = false
}

// doReapply writes the recorded fraction to every region. Scroll events raised
// by those writes arrive in stateScrolling with no source and are dropped.
func (s *Synchronizer) doReapply(event Event) {
	if !s.recorded {
		return
	}
	s.state = stateScrolling
	s.source = ""
	s.apply("")
	s.dispatch(Event{Type: EventPassComplete})
}

func (s *Synchronizer) record(src Region) {
	rng := src.ScrollRange()
	if rng <= 0 {
		return
	}
	f := src.Offset() / rng
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	s.fraction = f
	s.recorded = true
}

func (s *Synchronizer) apply(skip string) {
	for _, nr := range s.regions {
		if nr.name == skip {
			continue
		}
		rng := nr.region.ScrollRange()
		if rng <= 0 {
			continue
		}
		target := s.fraction * rng
		delta := nr.region.Offset() - target
		if delta < offsetEpsilon && delta > -offsetEpsilon {
			continue
		}
		nr.region.SetOffset(target)
	}
}
