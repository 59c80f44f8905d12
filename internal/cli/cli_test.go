package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fhgr/curnav/internal/config"
	"github.com/fhgr/curnav/pkg/cache"
	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/depgraph"
	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/graph"
	dataio "github.com/fhgr/curnav/pkg/io"
	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/store"
	"github.com/fhgr/curnav/pkg/view"
)

// A -> B -> C hard, A -> D soft.
const curriculumCSV = `Modul_ID,Modul_Name,Modulgruppe,Semester,ECTS,Tags,Voraussetzung_Hard,Voraussetzung_Soft
A,Analysis,Mathematik,1,6,Informatik,,
B,Bauen,Informatik,2,4,Informatik;Praxis,A,
C,Cloud,Informatik,3,3,Praxis,B,
D,Design,Gestaltung,1,2,,,A
`

type testEnv struct {
	cli     *CLI
	out     *bytes.Buffer
	dir     string
	config  string
	dataset string
}

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	c.Out = &bytes.Buffer{}
	c.Err = io.Discard
	c.cfg.Cache.Dir = t.TempDir()
	return c
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Sessions.Dir = filepath.Join(dir, "sessions")
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}

	dsPath := filepath.Join(dir, "curriculum.csv")
	if err := os.WriteFile(dsPath, []byte(curriculumCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	out := &bytes.Buffer{}
	c.Out = out
	c.Err = io.Discard
	return &testEnv{cli: c, out: out, dir: dir, config: cfgPath, dataset: dsPath}
}

// run executes the root command with args and returns the command output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	root := e.cli.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return e.out.String(), err
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI(t).RootCommand()

	want := []string{"cache", "completion", "config", "explore", "filter", "graph", "inspect", "layout", "reach", "render", "serve", "store"}
	var got []string
	for _, cmd := range root.Commands() {
		if cmd.Name() == "help" {
			continue
		}
		got = append(got, cmd.Name())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"SVG, png,,dot", []string{"svg", "png", "dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	c := testCLI(t)
	c.cfg.Cache.Dir = "/tmp/curnav-test-cache"
	if dir, err := c.cacheDir(); err != nil || dir != "/tmp/curnav-test-cache" {
		t.Errorf("cacheDir() = %q, %v; want configured dir", dir, err)
	}

	c.cfg.Cache.Dir = ""
	want, err := cache.DefaultDir()
	if err != nil {
		t.Skip("no user cache dir:", err)
	}
	if dir, _ := c.cacheDir(); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
	if !strings.HasSuffix(want, appName) {
		t.Errorf("default cache dir %q should end with %q", want, appName)
	}
}

func TestLoadConfigLogLevel(t *testing.T) {
	e := newTestEnv(t)
	cfg := config.DefaultConfig()
	cfg.LogLevel = "warn"
	if err := cfg.Save(e.config); err != nil {
		t.Fatal(err)
	}

	if _, err := e.run(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := e.cli.Logger.GetLevel(); got != log.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}

	e.cli.SetLogLevel(LogDebug)
	if _, err := e.run(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := e.cli.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want debug to win over config", got)
	}
}

func TestInspect(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "inspect", e.dataset, "--json")
	if err != nil {
		t.Fatal(err)
	}
	r := decodeJSON[inspectReport](t, out)
	if r.Name != "curriculum" || r.Modules != 4 || r.HardEdges != 2 || r.SoftEdges != 1 {
		t.Errorf("report = %+v", r)
	}
	if len(r.Groups) != 3 || r.Groups[1].Group != "Informatik" || r.Groups[1].Credits != 7 {
		t.Errorf("groups = %+v", r.Groups)
	}
	if !reflect.DeepEqual(r.Tags, []string{"Informatik", "Praxis"}) {
		t.Errorf("tags = %v", r.Tags)
	}
	if len(r.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", r.Diagnostics)
	}

	out, err = e.run(t, "inspect", e.dataset)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"curriculum", "Gestaltung", "No data-quality issues"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectDiagnostics(t *testing.T) {
	e := newTestEnv(t)
	bad := filepath.Join(e.dir, "bad.csv")
	data := curriculumCSV + "E,Extra,Informatik,4,viel,,X,\n"
	if err := os.WriteFile(bad, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := e.run(t, "inspect", bad, "--json")
	if err != nil {
		t.Fatal(err)
	}
	r := decodeJSON[inspectReport](t, out)
	if len(r.Diagnostics) < 2 {
		t.Errorf("diagnostics = %v, want credits and dangling issues", r.Diagnostics)
	}
}

func TestReach(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "reach", "B", e.dataset, "--json")
	if err != nil {
		t.Fatal(err)
	}
	r := decodeJSON[reachReport](t, out)
	if r.Name != "Bauen" {
		t.Errorf("name = %q", r.Name)
	}
	if !reflect.DeepEqual(r.Ancestors, []string{"A"}) || !reflect.DeepEqual(r.Descendants, []string{"C"}) {
		t.Errorf("ancestors = %v, descendants = %v", r.Ancestors, r.Descendants)
	}
	if !reflect.DeepEqual(r.Highlighted, []string{"A", "B", "C"}) {
		t.Errorf("highlighted = %v", r.Highlighted)
	}

	out, err = e.run(t, "reach", "A", e.dataset)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "4 modules highlighted") {
		t.Errorf("output missing highlight count:\n%s", out)
	}
}

func TestReachUnknownModule(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "reach", "NOPE", e.dataset)
	if !apperrors.Is(err, apperrors.ErrCodeModuleNotFound) {
		t.Errorf("error = %v, want MODULE_NOT_FOUND", err)
	}
}

func TestFilter(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name      string
		args      []string
		wantEmpty bool
		wantIDs   []string
		wantTotal float64
	}{
		{"all", nil, false, []string{"A", "B", "C", "D"}, 15},
		{"semester and tag", []string{"--semester", "1", "--tag", "Informatik"}, false, []string{"A"}, 6},
		{"group", []string{"-g", "Informatik"}, false, []string{"B", "C"}, 7},
		{"no match", []string{"--semester", "6"}, true, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"filter", e.dataset, "--json"}, tt.args...)
			out, err := e.run(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			sum := decodeJSON[view.Summary](t, out)
			if sum.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", sum.Empty, tt.wantEmpty)
			}
			if !reflect.DeepEqual(sum.ModuleIDs, tt.wantIDs) {
				t.Errorf("ModuleIDs = %v, want %v", sum.ModuleIDs, tt.wantIDs)
			}
			if sum.TotalCredits != tt.wantTotal {
				t.Errorf("TotalCredits = %v, want %v", sum.TotalCredits, tt.wantTotal)
			}
		})
	}
}

func TestFilterOutput(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "filter", e.dataset, "--semester", "6", "--tag", "Robotik")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Unknown tags: Robotik", "No modules match"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilterInvalid(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "filter", e.dataset, "--tag", " ")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFilter) {
		t.Errorf("error = %v, want INVALID_FILTER", err)
	}
}

func TestRender(t *testing.T) {
	e := newTestEnv(t)
	base := filepath.Join(e.dir, "out", "plot")

	out, err := e.run(t, "render", e.dataset, "--format", "dot,json", "--focus", "B", "--legend", "-o", base)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, base+".dot") || !strings.Contains(out, base+".json") {
		t.Errorf("output should list written files:\n%s", out)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph curriculum {") {
		t.Errorf("dot output = %.40q", dot)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	net := decodeJSON[view.Network](t, string(data))
	if net.Focus != "B" || !reflect.DeepEqual(net.Highlighted, []string{"A", "B", "C"}) {
		t.Errorf("focus = %q, highlighted = %v", net.Focus, net.Highlighted)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	e := newTestEnv(t)
	if _, err := e.run(t, "render", e.dataset, "--format", "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGraphExport(t *testing.T) {
	e := newTestEnv(t)
	graphPath := filepath.Join(e.dir, "graph.json")
	tablePath := filepath.Join(e.dir, "modules.yaml")

	if _, err := e.run(t, "graph", e.dataset, "-o", graphPath, "--export", tablePath); err != nil {
		t.Fatal(err)
	}

	g, err := graph.ReadGraphFile(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Errorf("graph has %d nodes, %d edges; want 4, 3", g.NodeCount(), g.EdgeCount())
	}

	rows, err := dataio.ImportFile(tablePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("exported %d rows, want 4", len(rows))
	}
}

func TestLayoutCommand(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(e.dir, "layout.json")

	if _, err := e.run(t, "layout", e.dataset, "-o", path, "--iterations", "20"); err != nil {
		t.Fatal(err)
	}
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 4 {
		t.Errorf("layout has %d nodes, want 4", len(l.Nodes))
	}
	if l.Options.Iterations != 20 {
		t.Errorf("iterations = %d, want 20", l.Options.Iterations)
	}

	out, err := e.run(t, "layout", e.dataset, "-o", path, "--iterations", "20")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should hit the layout cache:\n%s", out)
	}
}

func TestStoreCommands(t *testing.T) {
	e := newTestEnv(t)
	mem := store.NewMemoryStore()
	e.cli.newStore = func(context.Context) (store.Store, error) { return mem, nil }

	if _, err := e.run(t, "store", "push", e.dataset, "--name", "demo"); err != nil {
		t.Fatal(err)
	}
	entry, err := mem.Load(context.Background(), "demo")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Source != "curriculum.csv" || len(entry.Modules) != 4 || entry.SourceHash == "" {
		t.Errorf("entry = %+v", entry)
	}

	out, err := e.run(t, "store", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "demo") {
		t.Errorf("list output missing dataset:\n%s", out)
	}

	pulled := filepath.Join(e.dir, "pulled.csv")
	if _, err := e.run(t, "store", "pull", "demo", "-o", pulled); err != nil {
		t.Fatal(err)
	}
	rows, err := dataio.ImportFile(pulled)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("pulled %d rows, want 4", len(rows))
	}

	out, err = e.run(t, "reach", "C", "--from-store", "demo", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if r := decodeJSON[reachReport](t, out); !reflect.DeepEqual(r.Ancestors, []string{"A", "B"}) {
		t.Errorf("ancestors from store = %v", r.Ancestors)
	}

	if _, err := e.run(t, "store", "delete", "demo"); err != nil {
		t.Fatal(err)
	}
	_, err = e.run(t, "store", "pull", "missing")
	if !apperrors.Is(err, apperrors.ErrCodeDatasetNotFound) {
		t.Errorf("error = %v, want DATASET_NOT_FOUND", err)
	}
}

func TestStoreWithoutURI(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "store", "list")
	if err == nil || !strings.Contains(err.Error(), "MONGO__URI") {
		t.Errorf("error = %v, want missing URI hint", err)
	}
}

func TestConfigInit(t *testing.T) {
	e := newTestEnv(t)
	e.config = filepath.Join(e.dir, "new", "config.yaml")

	if _, err := e.run(t, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(e.config); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := e.run(t, "config", "init"); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := e.run(t, "config", "init", "--force"); err != nil {
		t.Errorf("--force: %v", err)
	}

	out, err := e.run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, config.DefaultAddr) {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(e.dir, "cache"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	if _, err := e.run(t, "inspect", e.dataset, "--json"); err != nil {
		t.Fatal(err)
	}
	out, err = e.run(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared") || strings.Contains(out, "Cleared 0 ") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "curnav") {
		t.Error("bash completion should mention the command name")
	}
}

func TestNewRunnerNamespace(t *testing.T) {
	c := testCLI(t)
	c.cfg.Cache.Namespace = "bsc:"

	r, err := c.newRunner(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if got := r.Keyer.DatasetKey("x"); !strings.HasPrefix(got, "bsc:") {
		t.Errorf("DatasetKey = %q, want namespace prefix", got)
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := testCLI(t)

	ch, err := c.newCache(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", ch)
	}

	c.cfg.Cache.Backend = config.CacheNone
	ch, _ = c.newCache(context.Background(), false)
	if _, ok := ch.(*cache.FileCache); ok {
		t.Error("none backend should not use files")
	}

	c.cfg.Cache.Backend = config.CacheFile
	ch, _ = c.newCache(context.Background(), true)
	if _, ok := ch.(*cache.FileCache); ok {
		t.Error("--no-cache should not use files")
	}
}

func TestWarmLayout(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)

	rows, err := dataio.ReadRows(strings.NewReader(curriculumCSV), dataio.FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	ds := dataset.FromRows("test", rows, dataset.WithLayoutFunc(func(*depgraph.Graph, layout.Options) (layout.Positions, error) {
		return nil, errors.New("redis down")
	}))

	c.warmLayout(ds)
	if !strings.Contains(logs.String(), "redis down") {
		t.Errorf("layout failure not logged: %q", logs.String())
	}
	if len(ds.Layout()) != 4 {
		t.Errorf("fallback layout has %d positions, want 4", len(ds.Layout()))
	}
}
