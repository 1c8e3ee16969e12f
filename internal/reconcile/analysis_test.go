package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
)

func TestAnalyze(t *testing.T) {
	products := []catalog.Product{
		{SKU: "WIN-101-A"},
		{SKU: "WIN-102-A"},
		{SKU: "DOOR-300"},
		{SKU: "STUD-200"},
	}
	files := []string{
		"101-A.jpg",     // add prefix
		"DOR-102-A.jpg", // fix prefix
		"DR-300.jpg",    // fix prefix
		"STUD-200.jpg",  // exact
		"STUD-999.jpg",  // orphan
		"XX-102-A.jpg",  // fix prefix, same target as DOR-102-A
		"200.jpg",       // add prefix onto an existing file
	}

	a := newEngine(products).Analyze(files)

	require.Len(t, a.Classifications, len(files))
	assert.Len(t, a.ByRule(RuleExact), 1)
	assert.Len(t, a.ByRule(RuleAddPrefix), 2)
	assert.Len(t, a.ByRule(RuleFixPrefix), 3)
	require.Len(t, a.Orphans(), 1)
	assert.Equal(t, "STUD-999.jpg", a.Orphans()[0].Asset)

	require.Len(t, a.Renames, 3)
	assert.Equal(t, Move{From: "101-A.jpg", To: "WIN-101-A.jpg", Target: "WIN-101-A", Reason: RuleAddPrefix}, a.Renames[0])
	assert.Equal(t, "DOR", a.Renames[1].OldPrefix)
	assert.Equal(t, "WIN", a.Renames[1].NewPrefix)
	assert.Len(t, a.RenamesByRule(RuleAddPrefix), 1)
	assert.Len(t, a.RenamesByRule(RuleFixPrefix), 2)

	require.Len(t, a.Conflicts, 2)
	assert.Equal(t, "XX-102-A.jpg", a.Conflicts[0].Move.From)
	assert.Contains(t, a.Conflicts[0].Reason, "DOR-102-A.jpg")
	assert.Equal(t, "200.jpg", a.Conflicts[1].Move.From)
	assert.Contains(t, a.Conflicts[1].Reason, "already exists")

	assert.Equal(t, 4, a.Usable())

	assert.Equal(t, []PrefixCorrection{
		{From: "DOR", To: "WIN", Count: 1},
		{From: "DR", To: "DOOR", Count: 1},
	}, a.PrefixCorrections)

	imaged := a.Imaged()
	assert.True(t, imaged["STUD-200"])
	assert.True(t, imaged["WIN-101-A"])
	assert.True(t, imaged["WIN-102-A"])
	assert.True(t, imaged["DOOR-300"])
	assert.False(t, imaged["STUD-999"])
}

func TestAnalyzeRenameTargetsAreUnique(t *testing.T) {
	products := []catalog.Product{{SKU: "WIN-1"}, {SKU: "WIN-2"}}
	files := []string{"1.jpg", "A-1.jpg", "B-1.jpg", "2.jpg", "C-2.jpg"}

	a := newEngine(products).Analyze(files)

	seen := make(map[string]bool)
	for _, m := range a.Renames {
		assert.False(t, seen[m.To], "target %s planned twice", m.To)
		seen[m.To] = true
		for _, f := range files {
			assert.NotEqual(t, f, m.To, "target %s is an existing asset", m.To)
		}
	}
	assert.Len(t, a.Renames, 2)
	assert.Len(t, a.Conflicts, 3)
}

func TestPrefixCorrectionsSortedByCount(t *testing.T) {
	products := []catalog.Product{{SKU: "WIN-1"}, {SKU: "DOOR-2"}, {SKU: "DOOR-3"}}
	a := newEngine(products).Analyze([]string{"X-1.jpg", "Y-2.jpg", "Y-3.jpg"})

	assert.Equal(t, []PrefixCorrection{
		{From: "Y", To: "DOOR", Count: 2},
		{From: "X", To: "WIN", Count: 1},
	}, a.PrefixCorrections)
}

func TestAnalyzeAmbiguous(t *testing.T) {
	products := []catalog.Product{{SKU: "WIN-10"}, {SKU: "DOOR-10"}}
	a := newEngine(products).Analyze([]string{"10.jpg", "WIN-10.jpg"})

	require.Len(t, a.Ambiguous(), 1)
	assert.Equal(t, "10.jpg", a.Ambiguous()[0].Asset)
}
