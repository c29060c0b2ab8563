package arbor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newCapturingLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.WarnLevel})
}

func TestSetDebugMode(t *testing.T) {
	g := NewGraph()
	g.SetDebugMode(true)
	if !g.debug || g.Logger().GetLevel() != log.DebugLevel {
		t.Error("debug mode should lower the log level to debug")
	}
	g.SetDebugMode(false)
	if g.debug || g.Logger().GetLevel() != log.WarnLevel {
		t.Error("disabling debug mode should restore warn level")
	}
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	g := NewGraph()
	g.SetLogger(nil)
	if g.Logger() == nil {
		t.Fatal("logger should never be nil")
	}
}

func TestDebugTreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	g := NewGraph()
	g.SetLogger(newCapturingLogger(&buf))
	g.SetDebugMode(true)

	prev := g.Root()
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		h := g.AddNode(NewBase("deep"))
		g.LinkNodes(h, prev)
		prev = h
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected depth warning, got:\n%s", buf.String())
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	g := NewGraph()
	g.SetLogger(newCapturingLogger(&buf))
	g.SetDebugMode(true)

	for i := 0; i < debugMaxChildCount+1; i++ {
		g.AddNode(NewBase("wide"))
	}
	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("expected child count warning, got:\n%s", buf.String())
	}
}

func TestNoWarningsWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	g := NewGraph()
	g.SetLogger(newCapturingLogger(&buf))

	for i := 0; i < debugMaxChildCount+1; i++ {
		g.AddNode(NewBase("wide"))
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(g *Graph, a, b Handle)
		want    string
	}{
		{
			name:    "asymmetric parent",
			corrupt: func(g *Graph, a, b Handle) { g.Node(b).parent = a },
			want:    "whose parent is",
		},
		{
			name: "duplicate child",
			corrupt: func(g *Graph, a, b Handle) {
				n := g.Node(a)
				n.children = append(n.children, b)
			},
			want: "listed as a child 2 times",
		},
		{
			name:    "orphan",
			corrupt: func(g *Graph, a, b Handle) { g.Node(g.Root()).removeChild(a) },
			want:    "not reachable from the root",
		},
		{
			name:    "root with parent",
			corrupt: func(g *Graph, a, b Handle) { g.Node(g.Root()).parent = a },
			want:    "root has parent",
		},
		{
			name:    "missing parent",
			corrupt: func(g *Graph, a, b Handle) { g.Node(b).parent = NoHandle },
			want:    "has no parent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			a := g.AddNode(NewBase("a"))
			b := g.AddNode(NewBase("b"))
			assertValid(t, g)

			tt.corrupt(g, a, b)
			err := g.Validate()
			if err == nil {
				t.Fatal("expected a violation")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestGraphString(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewBase("arm"))
	hand := g.AddNode(NewSprite("hand", Vec2{4, 4}, ColorWhite))
	g.LinkNodes(hand, a)
	g.AddNode(NewCamera("cam"))
	g.Node(hand).SetVisibility(false)

	out := g.String()
	for _, want := range []string{RootName, "arm [base", "hand [sprite", "(hidden)", "cam [camera"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "arm") > strings.Index(out, "hand") {
		t.Errorf("parent should be printed before child:\n%s", out)
	}
}
