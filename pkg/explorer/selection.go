package explorer

import (
	"context"

	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
)

// Selection is the highlighted allele and disease. Hover-off leaves the
// edge between them highlighted.
type Selection struct {
	Allele  string
	Disease string
}

// Associations are the pairwise gene records of one disease.
type Associations struct {
	Disease string
	Records []gateway.Association
	Err     string
}

// Associations returns the last fetched association records.
func (e *Explorer) Associations() (Associations, bool) {
	if e.associations == nil {
		return Associations{}, false
	}
	return *e.associations, true
}

func (e *Explorer) selectAllele(n graph.Node) ([]Effect, error) {
	if err := applyLabels(e.store, labelSelectAllele, labelTarget{Node: n.ID}); err != nil {
		return nil, e.missing("select", err)
	}

	var diseases []string
	for _, id := range e.store.InNeighbors(n.ID) {
		if d, err := e.store.Node(id); err == nil && d.Kind == graph.KindDisease {
			diseases = append(diseases, id)
		}
	}

	view := &AlleleView{Allele: sanitize(n.FullLabel), DiseaseIDs: diseases}
	e.panel = &Panel{
		Kind:   PanelAllele,
		NodeID: n.ID,
		Title:  sanitize(n.FullLabel) + " Information",
		Allele: view,
		token:  e.nextToken(),
	}
	if len(diseases) == 0 {
		e.logger.Warn("allele has no connected disease", logging.NodeKey(n.ID))
		view.PairwiseErr = "No connected disease."
		return nil, nil
	}

	e.setSelection(n.ID, diseases[0])
	view.PairwiseLoading = true
	effects := e.fetchPairwise()
	if d, err := e.store.Node(diseases[0]); err == nil {
		view.OddsLoading = true
		effects = append(effects, e.fetchOdds(n.FullLabel, d.FullLabel)...)
	}
	return effects, nil
}

// NextDisease shows the pairwise statistics of the next connected disease.
func (e *Explorer) NextDisease() []Effect {
	return e.stepDisease(1)
}

// PrevDisease shows the pairwise statistics of the previous connected
// disease.
func (e *Explorer) PrevDisease() []Effect {
	return e.stepDisease(-1)
}

func (e *Explorer) stepDisease(delta int) []Effect {
	if e.panel == nil || e.panel.Allele == nil || !e.panel.Allele.HasNavigation() {
		return nil
	}
	v := e.panel.Allele
	v.Index = (v.Index + delta + len(v.DiseaseIDs)) % len(v.DiseaseIDs)
	v.PairwiseLoading = true
	v.PairwiseErr = ""
	e.setSelection(e.panel.NodeID, v.DiseaseIDs[v.Index])
	return e.fetchPairwise()
}

// setSelection moves the highlighted edge to allele and disease.
func (e *Explorer) setSelection(allele, disease string) {
	prev := e.selection
	e.selection = Selection{Allele: allele, Disease: disease}
	if prev.Allele != "" {
		_ = e.store.UpdateEdge(prev.Disease, prev.Allele, func(ed *graph.Edge) { ed.Color = graph.EdgeColorDefault })
	}
	_ = e.store.UpdateEdge(disease, allele, func(ed *graph.Edge) { ed.Color = graph.EdgeColorHighlight })
}

// pairwiseOutcome carries statistics for one allele and disease.
type pairwiseOutcome struct {
	token   uint64
	index   int
	disease string
	info    *gateway.Info
	err     error
}

func (e *Explorer) fetchPairwise() []Effect {
	p := e.panel
	v := p.Allele
	diseaseID := v.DiseaseIDs[v.Index]
	d, err := e.store.Node(diseaseID)
	if err != nil {
		v.PairwiseLoading = false
		v.PairwiseErr = "Disease is no longer in the graph."
		_ = e.missing("pairwise", err)
		return nil
	}

	out := pairwiseOutcome{token: p.token, index: v.Index, disease: diseaseID}
	allele, disease := e.fullLabel(p.NodeID), d.FullLabel
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		o := out
		o.info, o.err = gw.Info(ctx, allele, disease)
		return &o
	}}
}

func (e *Explorer) fullLabel(id string) string {
	if n, err := e.store.Node(id); err == nil {
		return n.FullLabel
	}
	return ""
}

func (o *pairwiseOutcome) apply(e *Explorer) ([]Effect, error) {
	p := e.panel
	if p == nil || p.token != o.token || p.Allele == nil || p.Allele.Index != o.index {
		e.logger.Debug("discarding stale pairwise statistics", logging.NodeKey(o.disease))
		return nil, nil
	}
	v := p.Allele
	v.PairwiseLoading = false
	if o.err != nil {
		e.logger.Error("pairwise statistics failed", logging.NodeKey(o.disease), logging.Error(o.err))
		v.Pairwise = nil
		v.PairwiseErr = "Error loading disease info: " + sanitize(o.err.Error())
		return nil, nil
	}
	v.Pairwise = pairwiseRows(o.info)
	v.PairwiseErr = ""
	return nil, e.styleSelection(o.info, o.disease)
}

// styleSelection restyles the allele from the fetched statistics and
// highlights the selected disease.
func (e *Explorer) styleSelection(info *gateway.Info, diseaseID string) error {
	gene, _ := info.Get("gene_name")
	serotype, _ := info.Get("serotype")
	subtype, _ := info.Get("subtype")
	alleleID := gateway.AlleleID(gene, serotype, subtype, e.showSubtypes)

	enc := e.layout.Encoder()
	err := e.store.Update(alleleID, func(n *graph.Node) {
		n.Allele.OddsRatio = info.Float("odds_ratio")
		n.Allele.PValue = info.Float("p")
		n.Style = enc.Style(*n)
	})
	if err != nil {
		if err := e.missing("style selection", err); err != nil {
			return err
		}
	}
	return e.missing("style selection", applyLabels(e.store, labelPairwise, labelTarget{Node: e.selection.Allele, Disease: diseaseID}))
}

// oddsOutcome carries the ranked disease tables of an allele.
type oddsOutcome struct {
	token uint64
	info  *gateway.Info
	err   error
}

func (e *Explorer) fetchOdds(allele, disease string) []Effect {
	token := e.panel.token
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		info, err := gw.Info(ctx, allele, disease)
		return &oddsOutcome{token: token, info: info, err: err}
	}}
}

func (o *oddsOutcome) apply(e *Explorer) ([]Effect, error) {
	p := e.panel
	if p == nil || p.token != o.token || p.Allele == nil {
		e.logger.Debug("discarding stale odds tables")
		return nil, nil
	}
	v := p.Allele
	v.OddsLoading = false
	if o.err != nil {
		e.logger.Error("odds tables failed", logging.Error(o.err))
		v.OddsErr = "Error loading allele info: " + sanitize(o.err.Error())
		return nil, nil
	}
	v.TopOdds = oddsRows(o.info.TopOdds)
	v.LowestOdds = oddsRows(o.info.LowestOdds)
	return nil, nil
}

// ClosePanel closes the detail panel and restores the forced labels the
// selection suppressed.
func (e *Explorer) ClosePanel() {
	if e.panel == nil {
		return
	}
	e.panel = nil
	if sel := e.selection; sel.Allele != "" {
		_ = e.store.UpdateEdge(sel.Disease, sel.Allele, func(ed *graph.Edge) { ed.Color = graph.EdgeColorDefault })
		e.selection = Selection{}
	}
	_ = applyLabels(e.store, labelPanelClosed, labelTarget{})
}

// categoryOutcome carries the disease names of a category.
type categoryOutcome struct {
	token    uint64
	category string
	diseases []string
	err      error
}

func (e *Explorer) openCategoryPanel(categoryID string) []Effect {
	e.panel = &Panel{
		Kind:     PanelCategory,
		NodeID:   categoryID,
		Title:    "Diseases for " + sanitize(FormatCategory(categoryID)),
		Category: &CategoryView{Loading: true},
		token:    e.nextToken(),
	}
	token, filters, show := e.panel.token, e.filters, e.showSubtypes
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		names, err := gw.Diseases(ctx, categoryID, filters, show)
		return &categoryOutcome{token: token, category: categoryID, diseases: names, err: err}
	}}
}

func (o *categoryOutcome) apply(e *Explorer) ([]Effect, error) {
	p := e.panel
	if p == nil || p.token != o.token || p.Category == nil {
		e.logger.Debug("discarding stale disease list", logging.NodeKey(o.category))
		return nil, nil
	}
	v := p.Category
	v.Loading = false
	if o.err != nil {
		e.logger.Error("disease list failed", logging.NodeKey(o.category), logging.Error(o.err))
		v.Err = "Error loading diseases for category."
		return nil, nil
	}
	v.Diseases = make([]string, 0, len(o.diseases))
	for _, d := range o.diseases {
		v.Diseases = append(v.Diseases, sanitize(d))
	}
	return nil, nil
}

// SelectPanelDisease navigates to the i-th disease of the category panel.
func (e *Explorer) SelectPanelDisease(i int) []Effect {
	if e.panel == nil || e.panel.Category == nil || i < 0 || i >= len(e.panel.Category.Diseases) {
		return nil
	}
	return e.NavigateToDisease(e.panel.Category.Diseases[i])
}

// SelectOddsRow navigates to the disease in row i of the named odds table.
func (e *Explorer) SelectOddsRow(table string, i int) []Effect {
	if e.panel == nil || e.panel.Allele == nil {
		return nil
	}
	rows := e.panel.Allele.TopOdds
	if table == TableMostMitigated {
		rows = e.panel.Allele.LowestOdds
	}
	if i < 0 || i >= len(rows) {
		return nil
	}
	return e.NavigateToDisease(rows[i].Disease)
}

// ShowAllDiseasesWithAllele filters the graph to the panel's allele.
func (e *Explorer) ShowAllDiseasesWithAllele() ([]Effect, error) {
	if e.panel == nil || e.panel.Allele == nil {
		return nil, nil
	}
	return e.TableSelect("snp", e.fullLabel(e.panel.NodeID))
}

// FilterByPhenotype filters the graph to one disease name.
func (e *Explorer) FilterByPhenotype(name string) ([]Effect, error) {
	return e.TableSelect("phewas_string", name)
}

// associationsOutcome carries combined association records.
type associationsOutcome struct {
	disease string
	records []gateway.Association
	err     error
}

// ShowAssociations fetches the combined gene associations of the disease
// in the pairwise table.
func (e *Explorer) ShowAssociations() []Effect {
	if e.panel == nil || e.panel.Allele == nil {
		return nil
	}
	var disease string
	for _, r := range e.panel.Allele.Pairwise {
		if r.Associations {
			disease = r.Value
		}
	}
	if disease == "" {
		return nil
	}
	show := e.showSubtypes
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		records, err := gw.CombinedAssociations(ctx, disease, show)
		return &associationsOutcome{disease: disease, records: records, err: err}
	}}
}

func (o *associationsOutcome) apply(e *Explorer) ([]Effect, error) {
	a := &Associations{Disease: o.disease, Records: o.records}
	if o.err != nil {
		e.logger.Error("associations failed", logging.String("disease", o.disease), logging.Error(o.err))
		a.Records = nil
		a.Err = "Error loading associations."
	}
	e.associations = a
	return nil, nil
}

// HoverNode highlights the edges of id.
func (e *Explorer) HoverNode(id string) error {
	if !e.store.Has(id) {
		return e.missing("hover", &graph.GraphError{Op: "HoverNode", Entity: "node", ID: id, Cause: graph.ErrNodeNotFound})
	}
	for _, ed := range e.store.IncidentEdges(id) {
		_ = e.store.UpdateEdge(ed.Source, ed.Target, func(ed *graph.Edge) { ed.Color = graph.EdgeColorHighlight })
	}
	return nil
}

// HoverOffNode resets the edges of id, except the selected edge.
func (e *Explorer) HoverOffNode(id string) error {
	if !e.store.Has(id) {
		return e.missing("hover", &graph.GraphError{Op: "HoverOffNode", Entity: "node", ID: id, Cause: graph.ErrNodeNotFound})
	}
	for _, ed := range e.store.IncidentEdges(id) {
		if ed.Source == e.selection.Disease && ed.Target == e.selection.Allele {
			continue
		}
		_ = e.store.UpdateEdge(ed.Source, ed.Target, func(ed *graph.Edge) { ed.Color = graph.EdgeColorDefault })
	}
	return nil
}

// HoverEdge labels an edge with its source node's label.
func (e *Explorer) HoverEdge(source, target string) error {
	src, err := e.store.Node(source)
	if err != nil {
		return e.missing("hover edge", err)
	}
	return e.missing("hover edge", e.store.UpdateEdge(source, target, func(ed *graph.Edge) {
		ed.Label = src.Label
		ed.ForceLabel = true
	}))
}

// HoverOffEdge clears the hover label of an edge.
func (e *Explorer) HoverOffEdge(source, target string) error {
	return e.missing("hover edge", e.store.UpdateEdge(source, target, func(ed *graph.Edge) {
		ed.Label = ""
		ed.ForceLabel = false
	}))
}
