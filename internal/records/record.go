package records

// ImportRecord binds one product identifier to its image for the commerce
// product media import
type ImportRecord struct {
	Product ProductMedia `json:"product"`
}

// ProductMedia is the product part of an import record
type ProductMedia struct {
	SKU                 string       `json:"sku"`
	MediaGalleryEntries []MediaEntry `json:"media_gallery_entries"`
}

// MediaEntry is one media gallery entry
type MediaEntry struct {
	MediaType string       `json:"media_type"`
	Label     string       `json:"label"`
	Position  int          `json:"position"`
	Disabled  bool         `json:"disabled"`
	Types     []string     `json:"types"`
	Content   MediaContent `json:"content"`
}

// MediaContent carries the encoded image
type MediaContent struct {
	Base64EncodedData string `json:"base64_encoded_data"`
	Type              string `json:"type"`
	Name              string `json:"name"`
}

// Image roles assigned to every generated entry
var imageRoles = []string{"image", "small_image", "thumbnail"}

// NewImportRecord builds the record for one product image
func NewImportRecord(sku, fileName, mimeType, encoded string) ImportRecord {
	return ImportRecord{
		Product: ProductMedia{
			SKU: sku,
			MediaGalleryEntries: []MediaEntry{
				{
					MediaType: "image",
					Label:     "",
					Position:  1,
					Disabled:  false,
					Types:     append([]string(nil), imageRoles...),
					Content: MediaContent{
						Base64EncodedData: encoded,
						Type:              mimeType,
						Name:              fileName,
					},
				},
			},
		},
	}
}
