package core

// MatrixRow holds one scanned row, one bit per column.
type MatrixRow uint32

// MaxMatrixCols is the widest row a MatrixRow can hold.
const MaxMatrixCols = 32

// ApplyMatrixMask clears bits for switch positions that are not populated.
// Rows without a mask entry pass through unchanged.
func ApplyMatrixMask(mask []MatrixRow, row int, raw MatrixRow) MatrixRow {
	if row < 0 || row >= len(mask) {
		return raw
	}
	return raw & mask[row]
}
