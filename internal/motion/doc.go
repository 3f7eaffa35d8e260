// Package motion runs section choreography for a scrolling page: entrance
// timelines with overlapping steps, scroll-linked progress, responsive mode
// switching, and the mount/unmount lifecycle that ties them together.
//
// Nothing in this package is safe for concurrent use. A page session owns
// one Viewport, Stage and Director and drives them from a single goroutine,
// feeding viewport events and frame ticks in order.
package motion
