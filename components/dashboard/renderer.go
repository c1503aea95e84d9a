package dashboard

import "io"

// Renderer renders a named template. The output is returned and, when a
// writer is given, also written to it.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
