package sam

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// AddKind tells Header.Add how to interpret a parsed header line.
type AddKind int

const (
	AddAuto AddKind = iota
	AddHeader
	AddRefSeq
	AddReadGroup
)

// Header is the collection of header lines, reference sequences, and read
// groups associated with a stream of alignment records. Each Header owns a
// small integer (cindex) dispensed from the process-wide registry below,
// letting Records resolve RefID -> *Reference without carrying a pointer
// (Record.Cindex, see record.go).
type Header struct {
	lines  []*HeaderLine
	refs   []*Reference
	byName map[string]*Reference
	groups map[string]*ReadGroup

	cindex int32
}

// NewHeader returns an empty, registered Header.
func NewHeader() *Header {
	h := &Header{
		byName: make(map[string]*Reference),
		groups: make(map[string]*ReadGroup),
	}
	h.cindex = allocateCindex(h)
	return h
}

// Cindex returns the collection-index this header was dispensed.
func (h *Header) Cindex() int32 { return h.cindex }

// Close releases the header's collection-index registry slot. A closed
// Header must not be used further.
func (h *Header) Close() {
	freeCindex(h.cindex)
	h.cindex = 0
}

// Reallocate frees and reacquires this header's registry slot, for use when
// headers are re-read into the same *Header handle.
func (h *Header) Reallocate() {
	freeCindex(h.cindex)
	h.cindex = allocateCindex(h)
}

// Add parses line (a full "@XY\t..." header line) and inserts it,
// dispatching on its type code when kind is AddAuto.
func (h *Header) Add(line string, kind AddKind) error {
	if kind == AddAuto {
		switch {
		case strings.HasPrefix(line, "@SQ"):
			kind = AddRefSeq
		case strings.HasPrefix(line, "@RG"):
			kind = AddReadGroup
		default:
			kind = AddHeader
		}
	}
	switch kind {
	case AddRefSeq:
		hl, err := NewHeaderLine(line)
		if err != nil {
			return err
		}
		ref := &Reference{HeaderLine: hl, id: unmappedRefID}
		hl.self = ref
		if err := ref.sync(); err != nil {
			return err
		}
		return h.addReference(ref)
	case AddReadGroup:
		hl, err := NewHeaderLine(line)
		if err != nil {
			return err
		}
		rg := &ReadGroup{HeaderLine: hl}
		hl.self = rg
		if err := rg.sync(); err != nil {
			return err
		}
		return h.addReadGroup(rg)
	default:
		hl, err := NewHeaderLine(line)
		if err != nil {
			return err
		}
		h.lines = append(h.lines, hl)
		return nil
	}
}

func (h *Header) addReference(ref *Reference) error {
	if _, exists := h.byName[ref.Name()]; exists {
		return errors.Wrapf(ErrBadFormat, "duplicate reference name %q", ref.Name())
	}
	ref.id = int32(len(h.refs))
	h.refs = append(h.refs, ref)
	h.byName[ref.Name()] = ref
	h.lines = append(h.lines, ref.HeaderLine)
	return nil
}

// AddReference registers an already-constructed Reference (e.g. from
// NewReference) with the collection, assigning it the next free id.
func (h *Header) AddReference(ref *Reference) error { return h.addReference(ref) }

func (h *Header) addReadGroup(rg *ReadGroup) error {
	if _, exists := h.groups[rg.ID()]; exists {
		return errors.Wrapf(ErrBadFormat, "duplicate read group id %q", rg.ID())
	}
	h.groups[rg.ID()] = rg
	h.lines = append(h.lines, rg.HeaderLine)
	return nil
}

// AddReadGroup registers an already-constructed ReadGroup.
func (h *Header) AddReadGroup(rg *ReadGroup) error { return h.addReadGroup(rg) }

// RefByName returns the reference named name, the shared unmapped
// sentinel for "*", or false if no such reference is registered.
func (h *Header) RefByName(name string) (*Reference, bool) {
	if name == "*" {
		return unmappedReference, true
	}
	r, ok := h.byName[name]
	return r, ok
}

// RefByID returns the reference with the given id, the shared unmapped
// sentinel for -1, or false if id is out of range.
func (h *Header) RefByID(id int32) (*Reference, bool) {
	if id == unmappedRefID {
		return unmappedReference, true
	}
	if id < 0 || int(id) >= len(h.refs) {
		return nil, false
	}
	return h.refs[id], true
}

// GroupByID returns the read group with the given id.
func (h *Header) GroupByID(id string) (*ReadGroup, bool) {
	rg, ok := h.groups[id]
	return rg, ok
}

// Refs returns a read-only view of the reference sequences in id order.
func (h *Header) Refs() []*Reference { return h.refs }

// Groups returns a read-only view of the registered read groups.
func (h *Header) Groups() map[string]*ReadGroup { return h.groups }

// Lines returns every header line (including @SQ/@RG) in insertion order.
func (h *Header) Lines() []*HeaderLine { return h.lines }

// String renders every header line, one per line, newline-terminated.
func (h *Header) String() string {
	var b strings.Builder
	for _, l := range h.lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// --- process-wide collection-index registry ---

var (
	cindexMu  sync.Mutex
	cindexTbl = []*Header{nil} // index 0 reserved, never assigned
)

func allocateCindex(h *Header) int32 {
	cindexMu.Lock()
	defer cindexMu.Unlock()
	for i := 1; i < len(cindexTbl); i++ {
		if cindexTbl[i] == nil {
			cindexTbl[i] = h
			return int32(i)
		}
	}
	cindexTbl = append(cindexTbl, h)
	return int32(len(cindexTbl) - 1)
}

func freeCindex(idx int32) {
	if idx <= 0 {
		return
	}
	cindexMu.Lock()
	defer cindexMu.Unlock()
	if int(idx) < len(cindexTbl) {
		cindexTbl[idx] = nil
	}
}

// HeaderForCindex resolves a collection-index back to its *Header, or nil
// if the index is stale (its Header has since been Closed).
func HeaderForCindex(idx int32) *Header {
	cindexMu.Lock()
	defer cindexMu.Unlock()
	if idx <= 0 || int(idx) >= len(cindexTbl) {
		return nil
	}
	return cindexTbl[idx]
}
