// Package gallery holds the state of the full-screen image viewer.
package gallery

// Viewer is either closed or open on an image list at an index.
// The zero value is a closed viewer.
type Viewer struct {
	images []string
	index  int
	open   bool
}

// Open shows images starting at start. An empty list leaves the viewer
// closed; start is normalized into range modulo the list length.
func (v *Viewer) Open(images []string, start int) {
	if len(images) == 0 {
		v.Close()
		return
	}
	v.images = append([]string(nil), images...)
	v.index = mod(start, len(images))
	v.open = true
}

// Close hides the viewer.
func (v *Viewer) Close() {
	v.images = nil
	v.index = 0
	v.open = false
}

// Next advances one image, wrapping to the first. No-op when closed.
func (v *Viewer) Next() {
	if !v.open {
		return
	}
	v.index = mod(v.index+1, len(v.images))
}

// Prev steps back one image, wrapping to the last. No-op when closed.
func (v *Viewer) Prev() {
	if !v.open {
		return
	}
	v.index = mod(v.index-1, len(v.images))
}

func (v *Viewer) IsOpen() bool { return v.open }

func (v *Viewer) Index() int { return v.index }

func (v *Viewer) Len() int { return len(v.images) }

// Current returns the displayed image URL, or "" when closed.
func (v *Viewer) Current() string {
	if !v.open {
		return ""
	}
	return v.images[v.index]
}

// NextIndex and PrevIndex report the neighbours without moving, so links
// can be rendered server side.
func (v *Viewer) NextIndex() int {
	if !v.open {
		return 0
	}
	return mod(v.index+1, len(v.images))
}

func (v *Viewer) PrevIndex() int {
	if !v.open {
		return 0
	}
	return mod(v.index-1, len(v.images))
}

func mod(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}
