package motion

import (
	"sort"
	"strings"
)

// Animatable properties. Values are unitless; x, y and blur are pixels,
// width is a percentage.
const (
	PropOpacity = "opacity"
	PropX       = "x"
	PropY       = "y"
	PropBlur    = "blur"
	PropScale   = "scale"
	PropWidth   = "width"
)

// Props maps property names to values.
type Props map[string]float64

// Clone returns a copy of p.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the property names of p in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultValue(prop string) float64 {
	switch prop {
	case PropOpacity, PropScale:
		return 1
	}
	return 0
}

// Element is one presentation node owned by a section.
type Element struct {
	id        string
	owner     string
	props     Props
	mutations int
}

// ID returns the element's fully qualified id, e.g. "hero.headline".
func (e *Element) ID() string { return e.id }

// Owner returns the section that registered the element.
func (e *Element) Owner() string { return e.owner }

// Get returns the current value of prop.
func (e *Element) Get(prop string) float64 {
	if v, ok := e.props[prop]; ok {
		return v
	}
	return defaultValue(prop)
}

// Props returns a snapshot of every property set so far.
func (e *Element) Props() Props { return e.props.Clone() }

// Mutations counts applied property writes.
func (e *Element) Mutations() int { return e.mutations }

// Stage holds every element of one page session and collects the
// property changes made since the last Flush.
type Stage struct {
	elems map[string]*Element
	order []string
	dirty map[string]Props
}

// NewStage returns an empty stage.
func NewStage() *Stage {
	return &Stage{
		elems: make(map[string]*Element),
		dirty: make(map[string]Props),
	}
}

// Register adds an element named name under section and returns it.
// Registering an existing id returns the existing element.
func (s *Stage) Register(section, name string) *Element {
	id := section + "." + name
	if el, ok := s.elems[id]; ok {
		return el
	}
	el := &Element{id: id, owner: section, props: make(Props)}
	s.elems[id] = el
	s.order = append(s.order, id)
	return el
}

// Remove detaches an element, as when a node leaves the document.
func (s *Stage) Remove(id string) {
	if _, ok := s.elems[id]; !ok {
		return
	}
	delete(s.elems, id)
	delete(s.dirty, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Element looks up an element by its fully qualified id.
func (s *Stage) Element(id string) (*Element, bool) {
	el, ok := s.elems[id]
	return el, ok
}

// Len returns the number of registered elements.
func (s *Stage) Len() int { return len(s.elems) }

// Flush returns and clears the pending property changes keyed by element id.
func (s *Stage) Flush() map[string]Props {
	if len(s.dirty) == 0 {
		return nil
	}
	out := s.dirty
	s.dirty = make(map[string]Props)
	return out
}

func (s *Stage) write(el *Element, prop string, v float64) {
	el.props[prop] = v
	el.mutations++
	patch, ok := s.dirty[el.id]
	if !ok {
		patch = make(Props)
		s.dirty[el.id] = patch
	}
	patch[prop] = v
}

// Scope returns a view of the stage restricted to section's elements.
func (s *Stage) Scope(section string) *Scope {
	return &Scope{stage: s, section: section}
}

// Scope is the only path through which an orchestrator mutates elements.
// Once closed it drops every write.
type Scope struct {
	stage   *Stage
	section string
	closed  bool
	dropped int
}

// Section returns the owning section id.
func (sc *Scope) Section() string { return sc.section }

// Resolve returns the section's elements matching selector. A selector is
// an element name ("headline") or a prefix group ("items.*"), matched in
// registration order. Missing elements produce an empty result.
func (sc *Scope) Resolve(selector string) []*Element {
	if sc.closed {
		return nil
	}
	if prefix, ok := strings.CutSuffix(selector, "*"); ok {
		full := sc.section + "." + prefix
		var out []*Element
		for _, id := range sc.stage.order {
			if strings.HasPrefix(id, full) {
				out = append(out, sc.stage.elems[id])
			}
		}
		return out
	}
	if el, ok := sc.stage.elems[sc.section+"."+selector]; ok {
		return []*Element{el}
	}
	return nil
}

// Set writes prop on el. Writes are dropped after Close, for detached
// elements, and for elements owned by another section.
func (sc *Scope) Set(el *Element, prop string, v float64) bool {
	if sc.closed || el == nil || el.owner != sc.section {
		sc.dropped++
		return false
	}
	if cur, ok := sc.stage.elems[el.id]; !ok || cur != el {
		sc.dropped++
		return false
	}
	sc.stage.write(el, prop, v)
	return true
}

// Apply writes every property of props on el.
func (sc *Scope) Apply(el *Element, props Props) {
	for _, k := range props.Keys() {
		sc.Set(el, k, props[k])
	}
}

// Close stops all further writes through the scope.
func (sc *Scope) Close() { sc.closed = true }

// Closed reports whether Close has been called.
func (sc *Scope) Closed() bool { return sc.closed }

// Dropped counts writes rejected by the scope.
func (sc *Scope) Dropped() int { return sc.dropped }
