package layout

import "fmt"

// ValidationWarning describes a layout issue found during validation.
type ValidationWarning struct {
	CellIndex int    `json:"cell_index"`
	Message   string `json:"message"`
	Severity  string `json:"severity"` // "error" or "warning"
}

// ValidateGrid checks that every cell lies within the margin-reduced paper
// area and that no cell overlaps its right or lower neighbour. A grid
// produced by ComputeGrid yields no warnings; the check guards grids
// assembled or edited elsewhere.
func ValidateGrid(grid Grid, cfg LayoutConfig) []ValidationWarning {
	var warnings []ValidationWarning
	const eps = 0.01

	minX := cfg.MarginMM
	minY := cfg.MarginMM
	maxX := cfg.Paper.WidthMM() - cfg.MarginMM
	maxY := cfg.Paper.HeightMM() - cfg.MarginMM

	if len(grid.Cells) != grid.Rows*grid.Columns {
		warnings = append(warnings, ValidationWarning{
			CellIndex: -1,
			Message:   fmt.Sprintf("grid has %d cells, expected %d (%d rows x %d columns)", len(grid.Cells), grid.Rows*grid.Columns, grid.Rows, grid.Columns),
			Severity:  "error",
		})
	}

	for i := range grid.Cells {
		r := grid.CellRect(i)
		if r.X < minX-eps || r.Y < minY-eps {
			warnings = append(warnings, ValidationWarning{
				CellIndex: i,
				Message:   fmt.Sprintf("cell origin (%.2f, %.2f) lies inside the margin (%.2f)", r.X, r.Y, cfg.MarginMM),
				Severity:  "error",
			})
		}
		if r.X+r.W > maxX+eps {
			warnings = append(warnings, ValidationWarning{
				CellIndex: i,
				Message:   fmt.Sprintf("cell right edge (%.2f) extends past printable width (%.2f)", r.X+r.W, maxX),
				Severity:  "error",
			})
		}
		if r.Y+r.H > maxY+eps {
			warnings = append(warnings, ValidationWarning{
				CellIndex: i,
				Message:   fmt.Sprintf("cell bottom edge (%.2f) extends past printable height (%.2f)", r.Y+r.H, maxY),
				Severity:  "error",
			})
		}
	}

	// Cells are row-major, so in a regular grid only the right and lower
	// neighbours can overlap.
	for i := range grid.Cells {
		for _, j := range neighbours(grid, i) {
			if rectsOverlap(grid.CellRect(i), grid.CellRect(j), eps) {
				warnings = append(warnings, ValidationWarning{
					CellIndex: i,
					Message:   fmt.Sprintf("cell %d overlaps with cell %d", i, j),
					Severity:  "error",
				})
			}
		}
	}

	return warnings
}

func neighbours(grid Grid, i int) []int {
	var out []int
	if grid.Columns > 0 && (i+1)%grid.Columns != 0 && i+1 < len(grid.Cells) {
		out = append(out, i+1)
	}
	if grid.Columns > 0 && i+grid.Columns < len(grid.Cells) {
		out = append(out, i+grid.Columns)
	}
	return out
}

// rectsOverlap checks if two axis-aligned rectangles overlap with tolerance.
func rectsOverlap(a, b Rect, eps float64) bool {
	if a.X+a.W <= b.X+eps || b.X+b.W <= a.X+eps {
		return false
	}
	if a.Y+a.H <= b.Y+eps || b.Y+b.H <= a.Y+eps {
		return false
	}
	return true
}
