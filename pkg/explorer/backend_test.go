package explorer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/metrics"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
	"github.com/stretchr/testify/require"
)

// row is one allele-disease association of the fake catalog.
type row struct {
	Category, Disease, SNP, Gene, Serotype, Subtype string
	OddsRatio, P                                    float64
}

var catalog = []row{
	{"infections", "hepatitis", "HLA_A_01", "A", "01", "00", 2.5, 0.001},
	{"infections", "hepatitis", "HLA_B_08", "B", "08", "00", 0.5, 0.01},
	{"infections", "influenza", "HLA_A_01", "A", "01", "00", 1.4, 0.04},
	{"infections", "sepsis", "HLA_C_06", "C", "06", "00", 1.1, 0.03},
	{"autoimmune", "psoriasis", "HLA_C_06", "C", "06", "00", 4.2, 0.00001},
	{"autoimmune", "sepsis", "HLA_C_06", "C", "06", "00", 1.1, 0.03},
}

// fakeBackend serves the catalog through the backend API.
type fakeBackend struct {
	t    *testing.T
	srv  *httptest.Server
	mu   sync.Mutex
	fail map[string]bool // "endpoint:param" that return 500
	hits map[string]int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, fail: map[string]bool{}, hits: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) failOn(key string, fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[key] = fail
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func underscore(s string) string { return strings.ReplaceAll(s, " ", "_") }

func matches(r row, fs filter.Filters) bool {
	for _, c := range fs {
		var v string
		switch c.Field {
		case "snp":
			v = r.SNP
		case "phewas_string":
			v = r.Disease
		case "category_string":
			v = r.Category
		case "gene_name":
			v = r.Gene
		default:
			continue
		}
		if strings.ToLower(v) != c.Value {
			return false
		}
	}
	return true
}

func (b *fakeBackend) rows(filters string) []row {
	fs, err := filter.Parse(filters)
	require.NoError(b.t, err)
	var out []row
	for _, r := range catalog {
		if matches(r, fs) {
			out = append(out, r)
		}
	}
	return out
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b.mu.Lock()
	b.hits[r.URL.Path]++
	failKey := r.URL.Path + ":" + q.Get("type") + q.Get("category_id") + q.Get("disease_id") + q.Get("disease") + q.Get("category")
	fail := b.fail[failKey]
	b.mu.Unlock()
	if fail {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	switch r.URL.Path {
	case "/api/graph-data/":
		b.graphData(w, q.Get("type"), q.Get("category_id"), q.Get("disease_id"), q.Get("filters"))
	case "/api/get-diseases/":
		category := strings.ReplaceAll(q.Get("category"), "_", " ")
		var names []string
		for _, rw := range b.rows(q.Get("filters")) {
			if rw.Category == category && !slices.Contains(names, rw.Disease) {
				names = append(names, rw.Disease)
			}
		}
		slices.Sort(names)
		writeJSON(w, map[string]any{"diseases": names})
	case "/api/get-info/":
		b.info(w, q.Get("allele"), q.Get("disease"))
	case "/api/get-path-to-node/":
		for _, rw := range catalog {
			if rw.Disease == q.Get("disease") {
				writeJSON(w, map[string]any{"path": []string{
					"category-" + underscore(rw.Category), "disease-" + underscore(rw.Disease),
				}})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"error": "Disease not found"})
	case "/api/get_combined_associations":
		writeJSON(w, []map[string]any{{
			"gene1": "HLA_A_01", "gene1_name": "A", "gene1_serotype": "01", "gene1_subtype": "00",
			"gene2": "HLA_B_08", "gene2_name": "B", "gene2_serotype": "08", "gene2_subtype": "00",
			"combined_odds_ratio": 3.0, "combined_p_value": 0.002,
		}})
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) graphData(w http.ResponseWriter, typ, categoryID, diseaseID, filters string) {
	var nodes, edges []map[string]any
	var visible []string
	seen := map[string]bool{}
	add := func(id string, n map[string]any) {
		if seen[id] {
			return
		}
		seen[id] = true
		nodes = append(nodes, n)
		visible = append(visible, id)
	}

	for _, r := range b.rows(filters) {
		cat := "category-" + underscore(r.Category)
		dis := "disease-" + underscore(r.Disease)
		al := "allele-" + underscore(r.SNP)
		switch typ {
		case "", gateway.TypeCategories:
			add(cat, map[string]any{"id": cat, "label": r.Category, "node_type": "category"})
		case gateway.TypeDiseases:
			if cat != categoryID {
				continue
			}
			add(dis, map[string]any{"id": dis, "label": r.Disease, "node_type": "disease", "allele_count": 2, "category": r.Category})
			edges = append(edges, map[string]any{"source": cat, "target": dis})
		case gateway.TypeAlleles:
			if dis != underscore(diseaseID) {
				continue
			}
			add(al, map[string]any{
				"id": al, "label": r.SNP, "node_type": "allele", "disease": r.Disease,
				"snp": r.SNP, "gene_class": 1, "gene_name": r.Gene,
				"p": r.P, "odds_ratio": r.OddsRatio,
			})
			edges = append(edges, map[string]any{"source": dis, "target": al})
		}
	}
	writeJSON(w, map[string]any{"nodes": nodes, "edges": edges, "visible": visible})
}

func (b *fakeBackend) info(w http.ResponseWriter, allele, disease string) {
	var top []map[string]any
	resp := map[string]any{}
	for _, r := range catalog {
		if r.SNP != allele {
			continue
		}
		if r.Disease == disease {
			resp["gene_class"] = 1
			resp["gene_name"] = r.Gene
			resp["serotype"] = r.Serotype
			resp["phewas_string"] = r.Disease
			resp["category_string"] = r.Category
			resp["odds_ratio"] = r.OddsRatio
			resp["p"] = r.P
		}
		top = append(top, map[string]any{"phewas_string": r.Disease, "odds_ratio": r.OddsRatio, "p": r.P})
	}
	if len(resp) == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	resp["top_odds"] = top
	resp["lowest_odds"] = []any{}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// memPrefs keeps preferences in memory.
type memPrefs struct{ show bool }

func (p *memPrefs) ShowSubtypes() bool { return p.show }

func (p *memPrefs) ToggleShowSubtypes() (bool, error) {
	p.show = !p.show
	return p.show, nil
}

// harness wires an Explorer to the fake backend.
type harness struct {
	backend  *fakeBackend
	explorer *Explorer
	runner   *Runner
	metrics  *metrics.Registry
	prefs    *memPrefs
}

func newHarness(t *testing.T, opts ...func(*Deps)) *harness {
	t.Helper()
	b := newFakeBackend(t)
	reg := metrics.NewRegistry()
	gw, err := gateway.New(gateway.Options{BaseURL: b.srv.URL, Metrics: reg})
	require.NoError(t, err)

	prefs := &memPrefs{}
	deps := Deps{
		Gateway: gw,
		Layout:  visualization.NewEngine(visualization.DefaultLayoutConfig(), nil),
		Prefs:   prefs,
		Metrics: reg,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	e, err := New(deps)
	require.NoError(t, err)
	return &harness{backend: b, explorer: e, runner: NewRunner(e), metrics: reg, prefs: prefs}
}
