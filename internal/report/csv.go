package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// CSVFrames writes one data-<step>.csv per step with rx,ry,rz,radius for
// every body. Meant for external particle viewers.
type CSVFrames struct {
	dir string
}

func NewCSVFrames(dir string) (*CSVFrames, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &CSVFrames{dir: dir}, nil
}

func FrameName(step int) string {
	return fmt.Sprintf("data-%d.csv", step)
}

func (c *CSVFrames) OnStep(step int, t float64, bodies []dynamo.Body) error {
	f, err := os.Create(filepath.Join(c.dir, FrameName(step)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, b := range bodies {
		row := []string{
			strconv.FormatFloat(b.R.X, 'e', 15, 64),
			strconv.FormatFloat(b.R.Y, 'e', 15, 64),
			strconv.FormatFloat(b.R.Z, 'e', 15, 64),
			strconv.FormatFloat(b.Radius, 'e', 15, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
