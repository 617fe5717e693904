// Package viz draws sandbox frames in the terminal.
//
// Physics types carry no drawing code; this package reads their public
// fields and renders them:
//
//   - [Canvas]: Braille-based pixel canvas with a colour per cell
//   - [Palette]: colours per body kind, blended with go-colorful
//   - [Renderer]: maps the unit plane onto a canvas and draws a frame
//   - [LiveModel]: Bubble Tea program that steps a world in real time
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scenario (next seed)
//	+/-   - Speed up / slow down simulated time
//	V     - Toggle velocity lines
//	Q     - Quit
package viz
