// Package viz renders displacement protocols in the terminal.
//
//   - [Plot]: ASCII line chart of a displacement history
//   - [Player]: Bubble Tea model replaying a schedule step by step
//   - [RenderSummary]: styled protocol and run summary
//
// # Key Bindings
//
//	Space - Pause/Resume replay
//	+/-   - Change replay speed
//	R     - Restart from zero
//	?     - Show help overlay
//	Q     - Quit
package viz
