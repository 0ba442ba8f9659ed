package gateway

import (
	"fmt"
	"strings"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// ToNode converts a backend record into a complete graph node. Position,
// style and visibility are left for the layout and encoder.
func (d NodeDTO) ToNode() (graph.Node, error) {
	kind := graph.Kind(d.NodeType)
	if !kind.Valid() {
		return graph.Node{}, fmt.Errorf("node %q: unknown node_type %q", d.ID, d.NodeType)
	}

	full := d.Label
	if kind == graph.KindAllele && d.SNP != "" {
		full = d.SNP
	}
	id := d.ID
	if id == "" {
		id = graph.NodeID(kind, full)
	}

	n := graph.Node{
		ID:        id,
		Kind:      kind,
		Label:     graph.DisplayLabel(full),
		FullLabel: full,
	}

	switch kind {
	case graph.KindCategory:
		n.ForceLabel = true
	case graph.KindDisease:
		n.Disease = graph.Disease{Category: d.Category, AlleleCount: d.AlleleCount}
	case graph.KindAllele:
		n.ForceLabel = true
		serotype, subtype := string(d.Serotype), string(d.Subtype)
		if serotype == "" {
			serotype, subtype = SplitAllele(full)
		}
		n.Allele = graph.Allele{
			GeneName:  d.GeneName,
			GeneClass: string(d.GeneClass),
			Serotype:  serotype,
			Subtype:   subtype,
			OddsRatio: d.OddsRatio,
			PValue:    d.P,
		}
	}
	return n, nil
}

// ToEdge converts a backend edge into a graph edge with the default color.
func (e EdgeDTO) ToEdge() graph.Edge {
	return graph.Edge{Source: e.Source, Target: e.Target, Color: graph.EdgeColorDefault}
}

// SplitAllele derives serotype and subtype from an allele name such as
// HLA_DRB1_0101. The subtype is empty for main groups like HLA_A_01.
func SplitAllele(snp string) (serotype, subtype string) {
	i := strings.LastIndex(snp, "_")
	if i < 0 || i == len(snp)-1 {
		return "", ""
	}
	code := snp[i+1:]
	if len(code) <= 2 {
		return code, ""
	}
	subtype = code[2:]
	if subtype == "00" {
		subtype = ""
	}
	return code[:2], subtype
}

// AlleleID builds the node id of an allele from its gene name, serotype
// and subtype. The subtype is only part of the id when subtypes are shown.
func AlleleID(gene, serotype, subtype string, showSubtypes bool) string {
	name := "HLA_" + gene + "_" + serotype
	if showSubtypes {
		name += subtype
	}
	return graph.NodeID(graph.KindAllele, name)
}
