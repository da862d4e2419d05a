// Package grid maps linear text-buffer indices to screen cells.
package grid

// GetGridCoords returns the column and row of cell index in a row-major
// grid that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// GetGridIndex is the inverse of GetGridCoords.
func GetGridIndex(x, y, cols int) int {
	return y*cols + x
}
