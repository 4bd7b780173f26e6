package testing

import (
	"reflect"
	"testing"

	"github.com/go-drift/containment/pkg/containment"
)

func TestRecordingUnit_SharedJournal(t *testing.T) {
	journal := &Journal{}
	a := NewRecordingUnit("a", journal)
	b := NewRecordingUnit("b", journal)

	a.WillAppear(containment.AppearanceEvent{Animated: true})
	b.DidRotate(containment.OrientationLandscapeLeft)
	a.DidAppear(containment.AppearanceEvent{})

	want := []string{"a.WillAppear", "b.DidRotate", "a.DidAppear"}
	if got := journal.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if n := journal.Count("a", "WillAppear"); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	if entries := journal.For("b"); len(entries) != 1 || entries[0].Orientation != containment.OrientationLandscapeLeft {
		t.Errorf("For(b) = %v", entries)
	}
	if !journal.Entries[0].Event.Animated {
		t.Error("expected event flags to be recorded")
	}

	journal.Reset()
	if len(journal.Entries) != 0 {
		t.Error("Reset did not clear entries")
	}
}

func TestRecordingUnit_Resources(t *testing.T) {
	u := NewRecordingUnit("u", nil)
	if u.Journal() == nil {
		t.Fatal("expected a private journal")
	}

	r := u.LoadResource()
	if u.Loads() != 1 || u.Resource() != r {
		t.Errorf("loads = %d, resource mismatch", u.Loads())
	}
	if r.Frame() != u.InitialFrame {
		t.Errorf("frame = %v, want %v", r.Frame(), u.InitialFrame)
	}
	if u.LoadedResource() != nil {
		t.Error("LoadedResource should be nil without KeepResource")
	}
	u.KeepResource = true
	if u.LoadedResource() != r {
		t.Error("LoadedResource should return the kept resource")
	}

	u.ResourceDidUnload()
	if u.Resource() != nil {
		t.Error("ResourceDidUnload should forget the resource")
	}
}

func TestRecordingUnit_Autorotate(t *testing.T) {
	u := NewRecordingUnit("u", nil)
	u.Autorotate = map[containment.Orientation]bool{
		containment.OrientationPortraitUpsideDown: false,
	}
	if !u.ShouldAutorotate(containment.OrientationPortrait) {
		t.Error("unlisted orientations should be allowed")
	}
	if u.ShouldAutorotate(containment.OrientationPortraitUpsideDown) {
		t.Error("listed orientation should be refused")
	}
	if n := u.Journal().Count("u", "ShouldAutorotate"); n != 2 {
		t.Errorf("ShouldAutorotate recorded %d times, want 2", n)
	}
}
