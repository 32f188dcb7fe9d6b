package mission

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
)

// The map is a 10x10 grid of 10-unit cells: A1 centers at (-45, -45),
// J10 at (45, 45). Grid labels are an input/display convention; the
// engine itself only ever sees x/z.
const (
	gridCols     = 10
	gridRows     = 10
	gridCellSize = 10.0
)

// GridToWorld maps a column-letter/row-number label like "C5" to the
// center of that cell.
func GridToWorld(label string) (unit.Vec, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 2 {
		return unit.Vec{}, fmt.Errorf("invalid grid reference %q", label)
	}

	col := int(s[0] - 'A')
	if col < 0 || col >= gridCols {
		return unit.Vec{}, fmt.Errorf("grid column out of range in %q", label)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > gridRows {
		return unit.Vec{}, fmt.Errorf("grid row out of range in %q", label)
	}

	return unit.Vec{
		X: (float64(col) - 4.5) * gridCellSize,
		Z: (float64(row-1) - 4.5) * gridCellSize,
	}, nil
}

// WorldToGrid maps a world position back to the nearest grid label, for
// radio callouts. Positions off the map clamp to the edge cells.
func WorldToGrid(v unit.Vec) string {
	col := int(math.Round(v.X/gridCellSize + 4.5))
	row := int(math.Round(v.Z/gridCellSize + 4.5))
	if col < 0 {
		col = 0
	}
	if col >= gridCols {
		col = gridCols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= gridRows {
		row = gridRows - 1
	}
	return fmt.Sprintf("%c%d", 'A'+col, row+1)
}
