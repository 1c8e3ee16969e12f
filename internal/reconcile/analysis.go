package reconcile

import (
	"sort"
)

// Move is a planned rename of one image file
type Move struct {
	From        string `json:"from" yaml:"from"`
	To          string `json:"to" yaml:"to"`
	Target      string `json:"target" yaml:"target"`
	Reason      Rule   `json:"reason" yaml:"reason"`
	OldPrefix   string `json:"old_prefix,omitempty" yaml:"old_prefix,omitempty"`
	NewPrefix   string `json:"new_prefix,omitempty" yaml:"new_prefix,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	ProductName string `json:"product_name,omitempty" yaml:"product_name,omitempty"`
}

// RuleReassign marks a move produced by orphan reassignment
const RuleReassign Rule = "reassign"

// Conflict is a rename left out of the plan because its target is taken
type Conflict struct {
	Move   Move   `json:"move" yaml:"move"`
	Reason string `json:"reason" yaml:"reason"`
}

// PrefixCorrection counts fix-prefix renames for one old to new prefix pair
type PrefixCorrection struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Count int    `json:"count" yaml:"count"`
}

// Analysis is the classification of every asset in a directory
type Analysis struct {
	Classifications   []Classification   `json:"classifications" yaml:"classifications"`
	Renames           []Move             `json:"renames" yaml:"renames"`
	Conflicts         []Conflict         `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	PrefixCorrections []PrefixCorrection `json:"prefix_corrections,omitempty" yaml:"prefix_corrections,omitempty"`
}

// Analyze classifies every image file name and plans the renames. A rename
// whose target is an existing asset or an earlier rename target becomes a
// conflict instead.
func (e *Engine) Analyze(files []string) Analysis {
	var a Analysis

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	claimed := make(map[string]string)

	for _, f := range files {
		c := e.Classify(e.naming.Candidate(f))
		c.Asset = f
		a.Classifications = append(a.Classifications, c)

		if !c.NeedsRename() {
			continue
		}

		move := Move{
			From:      f,
			To:        e.naming.FileName(c.Target),
			Target:    c.Target,
			Reason:    c.Rule,
			OldPrefix: c.OldPrefix,
			NewPrefix: c.NewPrefix,
		}

		switch {
		case present[move.To]:
			a.Conflicts = append(a.Conflicts, Conflict{Move: move, Reason: move.To + " already exists"})
		case claimed[move.To] != "":
			a.Conflicts = append(a.Conflicts, Conflict{Move: move, Reason: move.To + " already claimed by " + claimed[move.To]})
		default:
			claimed[move.To] = f
			a.Renames = append(a.Renames, move)
		}
	}

	a.PrefixCorrections = prefixCorrections(a.Renames)
	return a
}

// ByRule returns the classifications with the given rule, in asset order
func (a Analysis) ByRule(rule Rule) []Classification {
	var out []Classification
	for _, c := range a.Classifications {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// Orphans returns the classifications with no catalog match
func (a Analysis) Orphans() []Classification {
	return a.ByRule(RuleOrphan)
}

// Ambiguous returns the classifications where several identifiers matched
func (a Analysis) Ambiguous() []Classification {
	var out []Classification
	for _, c := range a.Classifications {
		if c.Ambiguous() {
			out = append(out, c)
		}
	}
	return out
}

// RenamesByRule returns the planned renames for one rule
func (a Analysis) RenamesByRule(rule Rule) []Move {
	var out []Move
	for _, m := range a.Renames {
		if m.Reason == rule {
			out = append(out, m)
		}
	}
	return out
}

// Usable is the number of assets matched once the planned renames are applied
func (a Analysis) Usable() int {
	return len(a.ByRule(RuleExact)) + len(a.Renames)
}

// Imaged returns the identifiers that have an image now or will have one
// after the planned renames
func (a Analysis) Imaged() map[string]bool {
	imaged := make(map[string]bool)
	for _, c := range a.Classifications {
		if c.Rule == RuleExact {
			imaged[c.Target] = true
		}
	}
	for _, m := range a.Renames {
		imaged[m.Target] = true
	}
	return imaged
}

func prefixCorrections(renames []Move) []PrefixCorrection {
	counts := make(map[[2]string]int)
	var order [][2]string
	for _, m := range renames {
		if m.Reason != RuleFixPrefix {
			continue
		}
		key := [2]string{m.OldPrefix, m.NewPrefix}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]PrefixCorrection, 0, len(order))
	for _, key := range order {
		out = append(out, PrefixCorrection{From: key[0], To: key[1], Count: counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
