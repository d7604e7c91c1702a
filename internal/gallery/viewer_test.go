package gallery

import "testing"

func TestOpenEmptyStaysClosed(t *testing.T) {
	var v Viewer
	v.Open(nil, 0)
	if v.IsOpen() {
		t.Fatal("viewer opened on empty list")
	}
	v.Next()
	v.Prev()
	if v.IsOpen() || v.Current() != "" {
		t.Fatal("closed viewer changed state")
	}
}

func TestOpenNormalizesStart(t *testing.T) {
	imgs := []string{"a", "b", "c"}
	tests := []struct {
		start int
		want  int
	}{
		{0, 0}, {2, 2}, {3, 0}, {7, 1}, {-1, 2}, {-4, 2},
	}
	for _, tc := range tests {
		var v Viewer
		v.Open(imgs, tc.start)
		if v.Index() != tc.want {
			t.Fatalf("Open(start=%d) index = %d, want %d", tc.start, v.Index(), tc.want)
		}
		if v.Current() != imgs[tc.want] {
			t.Fatalf("Current() = %q, want %q", v.Current(), imgs[tc.want])
		}
	}
}

func TestNextPrevWrap(t *testing.T) {
	var v Viewer
	v.Open([]string{"a", "b", "c"}, 2)
	v.Next()
	if v.Index() != 0 {
		t.Fatalf("Next from last = %d, want 0", v.Index())
	}
	v.Prev()
	if v.Index() != 2 {
		t.Fatalf("Prev from first = %d, want 2", v.Index())
	}
	if v.NextIndex() != 0 || v.PrevIndex() != 1 {
		t.Fatalf("neighbours = %d/%d", v.NextIndex(), v.PrevIndex())
	}
}

func TestCycleReturnsToStart(t *testing.T) {
	imgs := []string{"a", "b", "c", "d", "e"}
	for start := range imgs {
		var v Viewer
		v.Open(imgs, start)
		for i := 0; i < len(imgs); i++ {
			v.Next()
		}
		if v.Index() != start {
			t.Fatalf("after %d Next: index %d, want %d", len(imgs), v.Index(), start)
		}
		for i := 0; i < len(imgs); i++ {
			v.Prev()
		}
		if v.Index() != start {
			t.Fatalf("after %d Prev: index %d, want %d", len(imgs), v.Index(), start)
		}
	}
}

func TestSingleImage(t *testing.T) {
	var v Viewer
	v.Open([]string{"only"}, 5)
	v.Next()
	v.Prev()
	if v.Index() != 0 || v.Current() != "only" {
		t.Fatalf("single image viewer moved: %d %q", v.Index(), v.Current())
	}
}

func TestOpenCopiesImages(t *testing.T) {
	imgs := []string{"a", "b"}
	var v Viewer
	v.Open(imgs, 0)
	imgs[0] = "mutated"
	if v.Current() != "a" {
		t.Fatalf("viewer aliases caller slice: %q", v.Current())
	}
	v.Close()
	if v.IsOpen() || v.Len() != 0 {
		t.Fatal("Close did not reset viewer")
	}
}
