package records

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/images"
)

func makeRecords(n int) []ImportRecord {
	out := make([]ImportRecord, n)
	for i := range out {
		out[i] = NewImportRecord(string(rune('A'+i)), "x.jpg", DefaultMIMEType, "")
	}
	return out
}

func TestNewImportRecordShape(t *testing.T) {
	rec := NewImportRecord("WIN-101-A", "WIN-101-A.jpg", "image/jpeg", "AAEC")

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "product": {
    "sku": "WIN-101-A",
    "media_gallery_entries": [
      {
        "media_type": "image",
        "label": "",
        "position": 1,
        "disabled": false,
        "types": ["image", "small_image", "thumbnail"],
        "content": {
          "base64_encoded_data": "AAEC",
          "type": "image/jpeg",
          "name": "WIN-101-A.jpg"
        }
      }
    ]
  }
}`, string(data))
}

func TestBatch(t *testing.T) {
	tests := []struct {
		name     string
		records  int
		size     int
		expected []int
	}{
		{name: "empty", records: 0, size: 5, expected: nil},
		{name: "exact multiple", records: 10, size: 5, expected: []int{5, 5}},
		{name: "remainder", records: 12, size: 5, expected: []int{5, 5, 2}},
		{name: "fewer than size", records: 3, size: 5, expected: []int{3}},
		{name: "default size", records: 7, size: 0, expected: []int{5, 2}},
		{name: "size one", records: 3, size: 1, expected: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := makeRecords(tt.records)
			batches := Batch(recs, tt.size)

			var sizes []int
			var flat []ImportRecord
			for _, b := range batches {
				sizes = append(sizes, len(b))
				flat = append(flat, b...)
			}
			assert.Equal(t, tt.expected, sizes)
			if tt.records > 0 {
				assert.Equal(t, recs, flat, "batching preserves order")
			}
		})
	}
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", MIMEType("A.jpg"))
	assert.Equal(t, "image/jpeg", MIMEType("A.JPG"))
	assert.Equal(t, "image/png", MIMEType("A.png"))
	assert.Equal(t, DefaultMIMEType, MIMEType("A.unknownext"))
}

func newImageDir(t *testing.T, files map[string]string) *images.Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return images.NewStore(dir, ".jpg")
}

func TestGenerate(t *testing.T) {
	index := catalog.NewIndex([]catalog.Product{{SKU: "WIN-101-A"}, {SKU: "STUD-200"}})
	store := newImageDir(t, map[string]string{
		"WIN-101-A.jpg": "window",
		"STUD-200.jpg":  "stud",
		"STUD-999.jpg":  "orphan",
	})

	gen, err := Generate(index, store)
	require.NoError(t, err)

	assert.Equal(t, []string{"STUD-200.jpg", "WIN-101-A.jpg"}, gen.Matched)
	assert.Equal(t, []string{"STUD-999.jpg"}, gen.Unmatched)
	assert.Empty(t, gen.Failed)

	require.Len(t, gen.Records, 2)
	rec := gen.Records[1]
	assert.Equal(t, "WIN-101-A", rec.Product.SKU)
	content := rec.Product.MediaGalleryEntries[0].Content
	assert.Equal(t, "WIN-101-A.jpg", content.Name)
	assert.Equal(t, "image/jpeg", content.Type)

	decoded, err := base64.StdEncoding.DecodeString(content.Base64EncodedData)
	require.NoError(t, err)
	assert.Equal(t, "window", string(decoded))
}

func TestGenerateIsStableForUnchangedInput(t *testing.T) {
	index := catalog.NewIndex([]catalog.Product{{SKU: "A-1"}, {SKU: "A-2"}, {SKU: "A-3"}})
	store := newImageDir(t, map[string]string{"A-1.jpg": "1", "A-2.jpg": "2", "A-3.jpg": "3"})

	first, err := Generate(index, store)
	require.NoError(t, err)
	second, err := Generate(index, store)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

type unreadableSource struct {
	*images.Store
}

func (u unreadableSource) Read(fileName string) ([]byte, error) {
	return nil, os.ErrPermission
}

func TestGenerateSkipsUnreadable(t *testing.T) {
	index := catalog.NewIndex([]catalog.Product{{SKU: "A-1"}})
	store := newImageDir(t, map[string]string{"A-1.jpg": "1"})

	gen, err := Generate(index, unreadableSource{store})
	require.NoError(t, err)
	assert.Empty(t, gen.Records)
	require.Len(t, gen.Failed, 1)
	assert.Equal(t, "A-1.jpg", gen.Failed[0].File)
}

func TestGenerateMissingDirectory(t *testing.T) {
	_, err := Generate(catalog.NewIndex(nil), images.NewStore("/nonexistent/images", ".jpg"))
	assert.Error(t, err)
}

func TestWriterReplace(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"accs_product_images_1.json", "accs_product_images_9.json", "accs_products.json", "other_1.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0644))
	}

	w := NewWriter(dir, "")
	result, err := w.Replace(Batch(makeRecords(7), 5))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"accs_product_images_1.json", "accs_product_images_9.json"}, result.Deleted)
	assert.Equal(t, []Unit{
		{Name: "accs_product_images_1.json", Records: 5},
		{Name: "accs_product_images_2.json", Records: 2},
	}, result.Written)

	existing, err := w.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{"accs_product_images_1.json", "accs_product_images_2.json"}, existing)

	for _, keep := range []string{"accs_products.json", "other_1.json"} {
		_, err := os.Stat(filepath.Join(dir, keep))
		assert.NoError(t, err, "%s must not be touched", keep)
	}

	data, err := os.ReadFile(filepath.Join(dir, "accs_product_images_2.json"))
	require.NoError(t, err)
	var decoded []ImportRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
	assert.Contains(t, string(data), "\n  {", "documents are indented with two spaces")
}

func TestWriterReplaceWithNoRecordsClearsOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "imgs_3.json"), []byte("[]"), 0644))

	w := NewWriter(dir, "imgs")
	result, err := w.Replace(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"imgs_3.json"}, result.Deleted)
	assert.Empty(t, result.Written)

	existing, err := w.Existing()
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestWriterReplaceStopsWhenDeletionFails(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"accs_product_images_1.json", "accs_product_images_2.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0644))
	}

	w := NewWriter(dir, "")
	w.remove = func(path string) error {
		if filepath.Base(path) == "accs_product_images_2.json" {
			return os.ErrPermission
		}
		return os.Remove(path)
	}

	result, err := w.Replace(Batch(makeRecords(3), 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, []string{"accs_product_images_1.json"}, result.Deleted)
	assert.Empty(t, result.Written)

	assert.NoFileExists(t, filepath.Join(dir, "accs_product_images_1.json"), "nothing is written once a deletion fails")
	data, err := os.ReadFile(filepath.Join(dir, "accs_product_images_2.json"))
	require.NoError(t, err)
	assert.Equal(t, "stale", string(data))
}

func TestWriterReplaceKeepsDeletionsWhenWriteFails(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"accs_product_images_3.json", "accs_product_images_9.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0644))
	}
	// A non-empty directory in the place of the first unit cannot be replaced by a file
	blocker := filepath.Join(dir, "accs_product_images_1.json")
	require.NoError(t, os.Mkdir(blocker, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "keep"), []byte("x"), 0644))

	w := NewWriter(dir, "")
	result, err := w.Replace(Batch(makeRecords(7), 5))
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"accs_product_images_3.json", "accs_product_images_9.json"}, result.Deleted)
	assert.Empty(t, result.Written)

	existing, err := w.Existing()
	require.NoError(t, err)
	assert.Empty(t, existing, "stale units stay removed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files are cleaned up")
	}
}

func TestWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	result, err := NewWriter(dir, "").Replace(Batch(makeRecords(1), 5))
	require.NoError(t, err)
	assert.Len(t, result.Written, 1)
}

func TestWriterPattern(t *testing.T) {
	p := NewWriter(".", "a.b").Pattern()
	assert.True(t, p.MatchString("a.b_12.json"))
	assert.False(t, p.MatchString("axb_12.json"))
	assert.False(t, p.MatchString("a.b_.json"))
	assert.False(t, p.MatchString("a.b_1.json.bak"))
}
