package testing

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/containment/pkg/containment"
	"github.com/go-drift/containment/pkg/graphics"
)

// Entry is one callback received by a RecordingUnit.
type Entry struct {
	// Unit is the name of the unit that received the callback.
	Unit string
	// Callback is the callback name (e.g., "WillAppear").
	Callback string
	// Event holds the flags passed to appearance callbacks.
	Event containment.AppearanceEvent
	// MovingToParent is containment.IsMovingToParent sampled inside the callback.
	MovingToParent bool
	// MovingFromParent is containment.IsMovingFromParent sampled inside the callback.
	MovingFromParent bool
	// Orientation is the orientation passed to rotation callbacks.
	Orientation containment.Orientation
}

func (e Entry) String() string {
	return e.Unit + "." + e.Callback
}

// Journal collects entries from any number of units in arrival order.
type Journal struct {
	Entries []Entry
}

func (j *Journal) add(e Entry) {
	j.Entries = append(j.Entries, e)
}

// Names returns "unit.Callback" for every entry.
func (j *Journal) Names() []string {
	names := make([]string, len(j.Entries))
	for i, e := range j.Entries {
		names[i] = e.String()
	}
	return names
}

// For returns the entries recorded by the named unit.
func (j *Journal) For(unit string) []Entry {
	var out []Entry
	for _, e := range j.Entries {
		if e.Unit == unit {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many times the named unit received callback.
func (j *Journal) Count(unit, callback string) int {
	n := 0
	for _, e := range j.Entries {
		if e.Unit == unit && e.Callback == callback {
			n++
		}
	}
	return n
}

// Reset drops all entries.
func (j *Journal) Reset() {
	j.Entries = nil
}

func (j *Journal) String() string {
	return strings.Join(j.Names(), "\n")
}

// RecordingUnit is a child unit implementing every optional callback.
type RecordingUnit struct {
	// Name labels the unit's journal entries.
	Name string
	// InitialFrame is the frame given to freshly loaded resources.
	InitialFrame graphics.Rect
	// InitialMask is the resizing policy given to freshly loaded resources.
	InitialMask containment.ResizingMask
	// KeepResource makes the unit hold its resource across embeddings.
	KeepResource bool
	// Autorotate is the answer to ShouldAutorotate, keyed by orientation.
	// Missing orientations are allowed.
	Autorotate map[containment.Orientation]bool

	journal  *Journal
	resource containment.Resource
	loads    int
}

// NewRecordingUnit creates a unit recording into journal.
func NewRecordingUnit(name string, journal *Journal) *RecordingUnit {
	if journal == nil {
		journal = &Journal{}
	}
	return &RecordingUnit{
		Name:         name,
		InitialFrame: graphics.RectFromLTWH(10, 20, 100, 50),
		journal:      journal,
	}
}

// Journal returns the journal the unit records into.
func (u *RecordingUnit) Journal() *Journal {
	return u.journal
}

// Loads returns how many resources the unit has created.
func (u *RecordingUnit) Loads() int {
	return u.loads
}

// Resource returns the last resource the unit created.
func (u *RecordingUnit) Resource() containment.Resource {
	return u.resource
}

// LoadResource creates a new view.
func (u *RecordingUnit) LoadResource() containment.Resource {
	u.loads++
	view := containment.NewView(u.InitialFrame)
	view.SetResizingMask(u.InitialMask)
	u.resource = view
	return view
}

// LoadedResource returns the kept resource when KeepResource is set.
func (u *RecordingUnit) LoadedResource() containment.Resource {
	if !u.KeepResource {
		return nil
	}
	return u.resource
}

func (u *RecordingUnit) record(callback string, e containment.AppearanceEvent) {
	u.journal.add(Entry{
		Unit:             u.Name,
		Callback:         callback,
		Event:            e,
		MovingToParent:   containment.IsMovingToParent(u),
		MovingFromParent: containment.IsMovingFromParent(u),
	})
}

// ResourceDidLoad records the callback.
func (u *RecordingUnit) ResourceDidLoad() {
	u.record("ResourceDidLoad", containment.AppearanceEvent{})
}

// ResourceDidUnload records the callback and forgets the resource.
func (u *RecordingUnit) ResourceDidUnload() {
	u.resource = nil
	u.record("ResourceDidUnload", containment.AppearanceEvent{})
}

// WillAppear records the callback.
func (u *RecordingUnit) WillAppear(e containment.AppearanceEvent) { u.record("WillAppear", e) }

// DidAppear records the callback.
func (u *RecordingUnit) DidAppear(e containment.AppearanceEvent) { u.record("DidAppear", e) }

// WillDisappear records the callback.
func (u *RecordingUnit) WillDisappear(e containment.AppearanceEvent) { u.record("WillDisappear", e) }

// DidDisappear records the callback.
func (u *RecordingUnit) DidDisappear(e containment.AppearanceEvent) { u.record("DidDisappear", e) }

// ShouldAutorotate records the query and answers from Autorotate.
func (u *RecordingUnit) ShouldAutorotate(to containment.Orientation) bool {
	u.journal.add(Entry{Unit: u.Name, Callback: "ShouldAutorotate", Orientation: to})
	if allowed, ok := u.Autorotate[to]; ok {
		return allowed
	}
	return true
}

// WillRotate records the callback.
func (u *RecordingUnit) WillRotate(to containment.Orientation, _ time.Duration) {
	u.journal.add(Entry{Unit: u.Name, Callback: "WillRotate", Orientation: to})
}

// WillAnimateRotation records the callback.
func (u *RecordingUnit) WillAnimateRotation(to containment.Orientation, _ time.Duration) {
	u.journal.add(Entry{Unit: u.Name, Callback: "WillAnimateRotation", Orientation: to})
}

// DidRotate records the callback.
func (u *RecordingUnit) DidRotate(from containment.Orientation) {
	u.journal.add(Entry{Unit: u.Name, Callback: "DidRotate", Orientation: from})
}

func (u *RecordingUnit) String() string {
	return fmt.Sprintf("RecordingUnit(%s)", u.Name)
}
