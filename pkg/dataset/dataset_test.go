package dataset

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/records"
)

func rows() []records.Row {
	return []records.Row{
		{records.ColID: "A", records.ColName: "Alpha", records.ColCredits: 6.0},
		{records.ColID: "B", records.ColName: "Beta", records.ColHardPrereqs: "A; GHOST"},
		{records.ColID: "A", records.ColName: "Alpha again"},
		{records.ColID: " "},
	}
}

func TestFromRows(t *testing.T) {
	d := FromRows("test", rows())

	if len(d.Modules) != 2 || d.Graph.NodeCount() != 2 || d.Graph.EdgeCount() != 1 {
		t.Fatalf("modules=%d nodes=%d edges=%d", len(d.Modules), d.Graph.NodeCount(), d.Graph.EdgeCount())
	}
	want := map[records.IssueKind]int{
		records.IssueDuplicateID:    1,
		records.IssueEmptyID:        1,
		records.IssueDanglingPrereq: 1,
	}
	for kind, n := range want {
		if got := d.Diagnostics.Count(kind); got != n {
			t.Errorf("%s: got %d, want %d", kind, got, n)
		}
	}

	m, ok := d.Module("A")
	if !ok || m.Name != "Alpha" {
		t.Errorf("Module(A) = %+v, %v; first row should win", m, ok)
	}
	if _, ok := d.Module("GHOST"); ok {
		t.Error("Module(GHOST) found")
	}
	if d.Names()["B"] != "Beta" {
		t.Errorf("Names() = %v", d.Names())
	}
}

func TestLayoutComputedOnce(t *testing.T) {
	var calls atomic.Int32
	fn := func(g *depgraph.Graph, opts layout.Options) (layout.Positions, error) {
		calls.Add(1)
		return layout.Spring(g, opts), nil
	}
	d := FromRows("test", rows(), WithLayoutFunc(fn))

	var wg sync.WaitGroup
	results := make([]layout.Positions, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.Layout()
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("layout computed %d times, want 1", calls.Load())
	}
	for _, r := range results[1:] {
		if r["A"] != results[0]["A"] {
			t.Error("concurrent callers saw different layouts")
		}
	}
}

func TestLayoutFallback(t *testing.T) {
	boom := errors.New("boom")
	d := FromRows("test", rows(), WithLayoutFunc(func(*depgraph.Graph, layout.Options) (layout.Positions, error) {
		return nil, boom
	}))
	pos := d.Layout()
	if len(pos) != 2 {
		t.Errorf("fallback layout has %d positions", len(pos))
	}
	if !errors.Is(d.LayoutErr(), boom) {
		t.Errorf("LayoutErr() = %v", d.LayoutErr())
	}
}

func TestLayoutOptionsDefaults(t *testing.T) {
	d := New("x", nil, nil, WithLayoutOptions(layout.Options{Seed: 7}))
	got := d.LayoutOptions()
	if got.Seed != 7 || got.K != layout.DefaultK || got.Iterations != layout.DefaultIterations {
		t.Errorf("LayoutOptions() = %+v", got)
	}
	if len(d.Layout()) != 0 {
		t.Error("empty dataset should have an empty layout")
	}
}
