package records

// DefaultBatchSize is the number of records per output document
const DefaultBatchSize = 5

// Batch splits records into groups of size, preserving order. Every batch
// but the last is full. A size of zero or less uses DefaultBatchSize.
func Batch(records []ImportRecord, size int) [][]ImportRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var batches [][]ImportRecord
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end])
	}
	return batches
}
