// Package containment provides the bookkeeping a custom container needs to
// embed child units the way built-in containers do.
//
// A container creates one [Content] per embedded child. The content owns the
// child for as long as it is embedded, creates the child's visual resource
// lazily, inserts it into a [StackView] and forwards appearance and rotation
// events only when they are consistent with the child's current phase:
//
//	content, err := containment.NewContent(child, container, containment.TransitionCrossDissolve, containment.DefaultDuration)
//	if err != nil {
//	    return err
//	}
//	if err := content.AddInto(stack); err != nil {
//	    return err
//	}
//	content.WillAppear(true, true)
//	runner.Run(content.Transition(), containment.DirectionIn, func() {
//	    content.DidAppear(true, true)
//	})
//
// # Lifecycle phases
//
// Forwarding follows a fixed state machine:
//
//	Detached ──materialize──► Materialized ──WillAppear──► Appearing
//	                                 ▲                          │
//	                                 │                      DidAppear
//	                                 │                          ▼
//	Disappeared ◄──DidDisappear── Disappearing ◄──WillDisappear── Appeared
//	     │
//	     └──WillAppear──► Appearing
//
// Calls that arrive in any other phase are ignored. Containers may therefore
// forward their own lifecycle events without tracking child phases. Ignored
// calls are reported to the errors package diagnostics hook.
//
// # Containment chain
//
// Because every content keeps a reference to its container, ancestors can be
// discovered from any descendant with [FindAncestor]:
//
//	if presenter, ok := containment.FindAncestor[Presenter](child); ok {
//	    presenter.Present(sheet)
//	}
package containment
