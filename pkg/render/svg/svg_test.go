package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tangleguard/layered/pkg/gallery"
	"github.com/tangleguard/layered/pkg/layout"
)

func TestRenderDiamond(t *testing.T) {
	res, err := layout.Compute(gallery.Diamond(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}

	out := Render(res)
	s := string(out)

	if !strings.HasPrefix(s, "<svg") {
		t.Error("output does not start with an <svg> element")
	}
	if got := strings.Count(s, "<circle"); got != 4 {
		t.Errorf("rendered %d circles, want 4", got)
	}
	if got := strings.Count(s, "<polyline"); got != 4 {
		t.Errorf("rendered %d polylines, want 4", got)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(s, ">"+id+"</text>") {
			t.Errorf("label %q missing", id)
		}
	}
}

func TestRenderFeedbackDashed(t *testing.T) {
	res, err := layout.Compute(gallery.Ring(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(Render(res)), "stroke-dasharray") {
		t.Error("feedback edge not rendered dashed")
	}
}

func TestRenderDeterministic(t *testing.T) {
	res, err := layout.Compute(gallery.Tangle(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(Render(res), Render(res)) {
		t.Error("two renders of the same layout differ")
	}
}

func TestRenderLabels(t *testing.T) {
	res, err := layout.Compute(gallery.Chain(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := string(Render(res, WithLabels(map[string]string{"a": "ingest <&>"})))
	if !strings.Contains(out, "ingest &lt;&amp;&gt;") {
		t.Error("label not escaped or not applied")
	}
}

func TestRenderEmpty(t *testing.T) {
	res, err := layout.Compute(gallery.Chain(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res.Positions = map[string]layout.Point{}
	res.Edges = nil
	// Must not panic on an empty drawing.
	if out := Render(res); !strings.HasPrefix(string(out), "<svg") {
		t.Error("empty render is not an SVG document")
	}
}
