package navigation_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-drift/containment/pkg/containment"
	drifterrors "github.com/go-drift/containment/pkg/errors"
	"github.com/go-drift/containment/pkg/graphics"
	"github.com/go-drift/containment/pkg/navigation"
	drifttest "github.com/go-drift/containment/pkg/testing"
)

// window stands in for the top-level container hosting a controller.
type window struct {
	name string
}

// hosted embeds a controller in a window and tracks its content.
type hosted struct {
	t       *testing.T
	content *containment.Content
	screen  *containment.Stack
}

func host(t *testing.T, unit containment.Unit) *hosted {
	t.Helper()
	content, err := containment.NewContent(unit, &window{name: "window"}, containment.TransitionNone, 0)
	if err != nil {
		t.Fatalf("NewContent: %v", err)
	}
	t.Cleanup(func() { content.Release() })
	return &hosted{
		t:       t,
		content: content,
		screen:  containment.NewStack(graphics.RectFromLTWH(0, 0, 390, 844)),
	}
}

func (h *hosted) show() {
	h.t.Helper()
	if !h.content.IsAddedToContainer() {
		if err := h.content.AddInto(h.screen); err != nil {
			h.t.Fatalf("AddInto: %v", err)
		}
	}
	moving := h.content.Phase() == containment.PhaseMaterialized
	h.content.WillAppear(false, moving)
	h.content.DidAppear(false, moving)
}

func (h *hosted) hide() {
	h.content.WillDisappear(false, false)
	h.content.DidDisappear(false, false)
}

func newController(t *testing.T, root containment.Unit, opts ...navigation.Option) *navigation.StackController {
	t.Helper()
	s, err := navigation.NewStackController(root, opts...)
	if err != nil {
		t.Fatalf("NewStackController: %v", err)
	}
	return s
}

func assertNames(t *testing.T, journal *drifttest.Journal, want ...string) {
	t.Helper()
	if got := journal.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("callbacks:\n got  %v\n want %v", got, want)
	}
}

func TestStackController_PushPopVisible(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root)

	h := host(t, s)
	h.show()
	assertNames(t, journal, "root.ResourceDidLoad", "root.WillAppear", "root.DidAppear")
	if !journal.Entries[1].MovingToParent || !journal.Entries[2].MovingToParent {
		t.Error("first appearance should be sampled as moving to parent")
	}

	journal.Reset()
	if err := s.Push(a, containment.TransitionSlideFromRight, containment.DefaultDuration); err != nil {
		t.Fatalf("Push: %v", err)
	}
	assertNames(t, journal,
		"a.ResourceDidLoad",
		"root.WillDisappear", "a.WillAppear",
		"root.DidDisappear", "a.DidAppear",
	)
	if s.Top() != a || s.Count() != 2 {
		t.Errorf("top = %v, count = %d", s.Top(), s.Count())
	}
	if got := s.StackView().Count(); got != 2 {
		t.Errorf("stack view holds %d resources, want 2", got)
	}
	if got := a.Resource().Frame(); got != s.StackView().Bounds() {
		t.Errorf("pushed resource frame = %v, want stack bounds", got)
	}
	if e := journal.For("a")[1]; !e.Event.Animated || !e.MovingToParent {
		t.Errorf("a.WillAppear = %+v, want animated and moving to parent", e)
	}

	journal.Reset()
	if popped := s.Pop(); popped != a {
		t.Fatalf("Pop = %v, want a", popped)
	}
	assertNames(t, journal,
		"a.WillDisappear", "root.WillAppear",
		"a.DidDisappear", "root.DidAppear",
	)
	if e := journal.For("a")[0]; !e.MovingFromParent || !e.Event.MovingFromParent {
		t.Errorf("a.WillDisappear = %+v, want moving from parent", e)
	}
	if containment.IsOwned(a) {
		t.Error("popped unit should no longer be owned")
	}
	if got := s.StackView().Count(); got != 1 {
		t.Errorf("stack view holds %d resources after pop, want 1", got)
	}
	if got, want := a.Resource().Frame(), a.InitialFrame; got != want {
		t.Errorf("popped resource frame = %v, want restored %v", got, want)
	}
}

func TestStackController_PopRoot(t *testing.T) {
	root := drifttest.NewRecordingUnit("root", nil)
	s := newController(t, root)
	if s.Pop() != nil {
		t.Error("root should not be poppable")
	}
	if s.PopToRoot() != nil {
		t.Error("PopToRoot with only the root should return nil")
	}
	if s.Root() != root || s.Count() != 1 {
		t.Error("root should remain")
	}
}

func TestStackController_PreloadBeforeDisplay(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root)

	if err := s.Push(a, containment.TransitionCrossDissolve, containment.DefaultDuration); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if len(journal.Entries) != 0 || a.Loads() != 0 {
		t.Fatalf("nothing should load before display, got %v", journal.Names())
	}

	h := host(t, s)
	h.show()
	assertNames(t, journal,
		"root.ResourceDidLoad", "a.ResourceDidLoad",
		"a.WillAppear", "a.DidAppear",
	)

	journal.Reset()
	s.Pop()
	assertNames(t, journal,
		"a.WillDisappear", "root.WillAppear",
		"a.DidDisappear", "root.DidAppear",
	)
	if journal.For("root")[0].MovingToParent {
		t.Error("uncovered root is not moving to parent")
	}
}

func TestStackController_PopWhileHiddenReleasesSilently(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root)
	h := host(t, s)
	h.show()
	if err := s.Push(a, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}
	h.hide()

	journal.Reset()
	s.Pop()
	if len(journal.Entries) != 0 {
		t.Errorf("no callbacks expected while hidden, got %v", journal.Names())
	}
	if containment.IsOwned(a) || s.StackView().Count() != 1 {
		t.Error("popped unit should be released and removed")
	}

	h.show()
	assertNames(t, journal, "root.WillAppear", "root.DidAppear")
}

func TestStackController_PopToRoot(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	b := drifttest.NewRecordingUnit("b", journal)
	c := drifttest.NewRecordingUnit("c", journal)
	s := newController(t, root)
	h := host(t, s)
	h.show()
	for _, u := range []containment.Unit{a, b, c} {
		if err := s.Push(u, containment.TransitionNone, 0); err != nil {
			t.Fatal(err)
		}
	}

	journal.Reset()
	popped := s.PopToRoot()
	want := []containment.Unit{c, b, a}
	if !reflect.DeepEqual(popped, want) {
		t.Errorf("PopToRoot = %v, want %v", popped, want)
	}
	assertNames(t, journal,
		"c.WillDisappear", "root.WillAppear",
		"c.DidDisappear", "root.DidAppear",
	)
	if s.Count() != 1 || s.StackView().Count() != 1 {
		t.Errorf("count = %d, stack view = %d", s.Count(), s.StackView().Count())
	}
	for _, u := range want {
		if containment.IsOwned(u) {
			t.Errorf("%v still owned", u)
		}
	}
}

func TestStackController_PushOwnedUnitFails(t *testing.T) {
	root := drifttest.NewRecordingUnit("root", nil)
	a := drifttest.NewRecordingUnit("a", nil)
	s := newController(t, root)
	if err := s.Push(a, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}

	err := s.Push(a, containment.TransitionNone, 0)
	if !errors.Is(err, drifterrors.ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned, got %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("count = %d, want 2", s.Count())
	}

	if _, err := navigation.NewStackController(a); !errors.Is(err, drifterrors.ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned for owned root, got %v", err)
	}
}

func TestStackController_Rotation(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	root.Autorotate = map[containment.Orientation]bool{containment.OrientationPortraitUpsideDown: false}
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root)

	if !s.ShouldAutorotate(containment.OrientationPortraitUpsideDown) {
		t.Error("units without resources should not veto rotation")
	}

	h := host(t, s)
	h.show()
	if err := s.Push(a, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}

	if s.ShouldAutorotate(containment.OrientationPortraitUpsideDown) {
		t.Error("root refuses upside down")
	}
	if !s.ShouldAutorotate(containment.OrientationLandscapeLeft) {
		t.Error("every unit accepts landscape")
	}

	journal.Reset()
	h.content.WillRotate(containment.OrientationLandscapeLeft, 300*time.Millisecond)
	h.content.DidRotate(containment.OrientationPortrait)
	assertNames(t, journal, "root.WillRotate", "a.WillRotate", "root.DidRotate", "a.DidRotate")
}

func TestStackController_UnloadAndReload(t *testing.T) {
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root)
	h := host(t, s)
	h.show()
	if err := s.Push(a, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}
	h.hide()

	journal.Reset()
	h.content.ReleaseResources()
	assertNames(t, journal, "root.ResourceDidUnload", "a.ResourceDidUnload")
	if s.StackView() != nil || s.IsVisible() {
		t.Error("controller should drop its stack view")
	}

	journal.Reset()
	h.show()
	assertNames(t, journal,
		"root.ResourceDidLoad", "a.ResourceDidLoad",
		"a.WillAppear", "a.DidAppear",
	)
	if a.Loads() != 2 {
		t.Errorf("a loaded %d times, want 2", a.Loads())
	}
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) DidPush(unit, previous containment.Unit) {
	o.events = append(o.events, "push "+unit.(*drifttest.RecordingUnit).Name+" over "+previous.(*drifttest.RecordingUnit).Name)
}

func (o *recordingObserver) DidPop(unit, previous containment.Unit) {
	o.events = append(o.events, "pop "+unit.(*drifttest.RecordingUnit).Name+" to "+previous.(*drifttest.RecordingUnit).Name)
}

func TestStackController_Observer(t *testing.T) {
	observer := &recordingObserver{}
	root := drifttest.NewRecordingUnit("root", nil)
	s := newController(t, root, navigation.WithObserver(observer))

	if err := s.Push(drifttest.NewRecordingUnit("a", nil), containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}
	s.Pop()

	want := []string{"push a over root", "pop a to root"}
	if !reflect.DeepEqual(observer.events, want) {
		t.Errorf("events = %v, want %v", observer.events, want)
	}
}

func TestStackController_AnimatedTransitions(t *testing.T) {
	ft := drifttest.NewFrameTester(t)
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root, navigation.WithRunner(navigation.AnimatedRunner{}))
	h := host(t, s)
	h.show()

	journal.Reset()
	if err := s.Push(a, containment.TransitionSlideFromRight, containment.DefaultDuration); err != nil {
		t.Fatal(err)
	}
	assertNames(t, journal, "a.ResourceDidLoad", "root.WillDisappear", "a.WillAppear")
	if !containment.IsMovingToParent(a) {
		t.Error("a should be moving to parent during the push")
	}

	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if journal.Count("a", "DidAppear") != 1 || journal.Count("root", "DidDisappear") != 1 {
		t.Errorf("push did not complete: %v", journal.Names())
	}
	if containment.IsMovingToParent(a) {
		t.Error("moving flag should be cleared after DidAppear")
	}

	journal.Reset()
	s.Pop()
	if !s.IsTransitioning() || s.StackView().Count() != 2 {
		t.Fatal("popped resource should stay on screen during its transition")
	}
	ft.Advance(100 * time.Millisecond)
	if journal.Count("a", "DidDisappear") != 0 {
		t.Error("pop finished too early")
	}
	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	assertNames(t, journal,
		"a.WillDisappear", "root.WillAppear",
		"a.DidDisappear", "root.DidAppear",
	)
	if s.IsTransitioning() || s.StackView().Count() != 1 || containment.IsOwned(a) {
		t.Error("pop should release the unit once settled")
	}
}

func assertPhase(t *testing.T, s *navigation.StackController, u containment.Unit, want containment.Phase) {
	t.Helper()
	c := s.ContentFor(u)
	if c == nil {
		t.Fatalf("%v is not on the stack", u)
	}
	if got := c.Phase(); got != want {
		t.Errorf("%v phase = %s, want %s", u, got, want)
	}
}

func TestStackController_PopDuringPushFinishesPush(t *testing.T) {
	ft := drifttest.NewFrameTester(t)
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	s := newController(t, root, navigation.WithRunner(navigation.AnimatedRunner{}))
	h := host(t, s)
	h.show()

	journal.Reset()
	if err := s.Push(a, containment.TransitionSlideFromRight, containment.DefaultDuration); err != nil {
		t.Fatal(err)
	}
	if !s.IsTransitioning() {
		t.Error("push should be transitioning")
	}
	s.Pop()
	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	assertNames(t, journal,
		"a.ResourceDidLoad",
		"root.WillDisappear", "a.WillAppear",
		"root.DidDisappear", "a.DidAppear",
		"a.WillDisappear", "root.WillAppear",
		"a.DidDisappear", "root.DidAppear",
	)
	assertPhase(t, s, root, containment.PhaseAppeared)
	if s.IsTransitioning() || containment.IsOwned(a) {
		t.Error("pop should have settled and released a")
	}
}

func TestStackController_PushDuringPushFinishesFirst(t *testing.T) {
	ft := drifttest.NewFrameTester(t)
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	b := drifttest.NewRecordingUnit("b", journal)
	s := newController(t, root, navigation.WithRunner(navigation.AnimatedRunner{}))
	h := host(t, s)
	h.show()

	journal.Reset()
	for _, u := range []containment.Unit{a, b} {
		if err := s.Push(u, containment.TransitionSlideFromRight, containment.DefaultDuration); err != nil {
			t.Fatal(err)
		}
	}
	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	assertNames(t, journal,
		"a.ResourceDidLoad",
		"root.WillDisappear", "a.WillAppear",
		"root.DidDisappear", "a.DidAppear",
		"b.ResourceDidLoad",
		"a.WillDisappear", "b.WillAppear",
		"a.DidDisappear", "b.DidAppear",
	)
	assertPhase(t, s, root, containment.PhaseDisappeared)
	assertPhase(t, s, a, containment.PhaseDisappeared)
	assertPhase(t, s, b, containment.PhaseAppeared)

	journal.Reset()
	s.Pop()
	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	assertNames(t, journal,
		"b.WillDisappear", "a.WillAppear",
		"b.DidDisappear", "a.DidAppear",
	)
	assertPhase(t, s, a, containment.PhaseAppeared)
}

func TestStackController_Dispose(t *testing.T) {
	ft := drifttest.NewFrameTester(t)
	journal := &drifttest.Journal{}
	root := drifttest.NewRecordingUnit("root", journal)
	a := drifttest.NewRecordingUnit("a", journal)
	b := drifttest.NewRecordingUnit("b", journal)
	s := newController(t, root, navigation.WithRunner(navigation.AnimatedRunner{}))
	h := host(t, s)
	h.show()
	if err := s.Push(a, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(b, containment.TransitionSlideFromBottom, containment.DefaultDuration); err != nil {
		t.Fatal(err)
	}
	s.Pop()

	journal.Reset()
	s.Dispose()
	for _, u := range []containment.Unit{root, a, b} {
		if containment.IsOwned(u) {
			t.Errorf("%v still owned after Dispose", u)
		}
	}
	if s.Count() != 0 || s.Top() != nil || s.Root() != nil || s.IsTransitioning() {
		t.Errorf("disposed controller still holds units: %v", s)
	}
	if err := ft.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if len(journal.Entries) != 0 {
		t.Errorf("no callbacks expected after Dispose, got %v", journal.Names())
	}

	err := s.Push(a, containment.TransitionNone, 0)
	if !errors.Is(err, drifterrors.ErrDisposed) {
		t.Errorf("Push after Dispose = %v, want ErrDisposed", err)
	}
	again := newController(t, root)
	if again.Root() != root {
		t.Error("root should be embeddable again after Dispose")
	}
	s.Dispose()
}

func TestStackController_Nested(t *testing.T) {
	journal := &drifttest.Journal{}
	outerRoot := drifttest.NewRecordingUnit("outer-root", journal)
	leaf := drifttest.NewRecordingUnit("leaf", journal)
	outer := newController(t, outerRoot)
	inner := newController(t, leaf)
	h := host(t, outer)
	h.show()

	journal.Reset()
	if err := outer.Push(inner, containment.TransitionNone, 0); err != nil {
		t.Fatal(err)
	}
	assertNames(t, journal,
		"leaf.ResourceDidLoad",
		"outer-root.WillDisappear", "leaf.WillAppear",
		"outer-root.DidDisappear", "leaf.DidAppear",
	)

	nearest, ok := containment.FindAncestor[*navigation.StackController](leaf)
	if !ok || nearest != inner {
		t.Errorf("nearest stack controller = %v, want inner", nearest)
	}
	win, ok := containment.FindAncestor[*window](leaf)
	if !ok || win.name != "window" {
		t.Errorf("window not found from leaf")
	}
	chain := containment.Chain(leaf)
	if len(chain) != 3 || chain[0] != inner || chain[1] != outer {
		t.Errorf("chain = %v", chain)
	}
}
