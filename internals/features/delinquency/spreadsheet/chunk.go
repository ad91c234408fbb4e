package spreadsheet

import "condoku_backend/internals/features/delinquency/dto"

const DefaultChunkSize = 200

// Chunk splits rows into ordered parts of at most size rows.
func Chunk(rows []dto.SlipRow, size int) [][]dto.SlipRow {
	if size <= 0 {
		size = DefaultChunkSize
	}
	parts := make([][]dto.SlipRow, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		parts = append(parts, rows[start:end])
	}
	return parts
}
