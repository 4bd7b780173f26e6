// Package testing provides fakes and frame drivers for testing containers.
//
// # Recording units
//
// [RecordingUnit] is a child unit that records every callback it receives in
// a shared [Journal], together with the moving flags its content reported at
// that moment:
//
//	journal := &drifttest.Journal{}
//	child := drifttest.NewRecordingUnit("child", journal)
//	content, _ := containment.NewContent(child, container, containment.TransitionNone, 0)
//	...
//	if got := journal.Names(); !slices.Equal(got, want) { ... }
//
// # Transition testing
//
// [FrameTester] installs a [FakeClock] as the animation clock and steps
// tickers frame by frame:
//
//	tester := drifttest.NewFrameTester(t)
//	stack.Push(child, containment.TransitionCrossDissolve, containment.DefaultDuration)
//	if err := tester.PumpAndSettle(time.Second); err != nil { ... }
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import drifttest "github.com/go-drift/containment/pkg/testing"
package testing
