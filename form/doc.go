// Package form describes the controls of the render form, the raw state
// they hold, its round trip through a URL query string, and the conversion
// of that state into a typed RenderRequest.
//
// Controls are addressed by element id. Any front end that can read and
// write control values by id (a browser session, a test double, the CLI)
// implements Controls.
package form
