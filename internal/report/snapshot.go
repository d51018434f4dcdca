package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

const DefaultSnapshotFile = "datos.txt"

// WriteSnapshot writes one line per body:
//
//	rx ry rz vx vy vz fx fy fz mass
//
// in scientific notation with 15 digits after the point.
func WriteSnapshot(w io.Writer, bodies []dynamo.Body) error {
	bw := bufio.NewWriter(w)
	for _, b := range bodies {
		_, err := fmt.Fprintf(bw, "%.15e %.15e %.15e %.15e %.15e %.15e %.15e %.15e %.15e %.15e\n",
			b.R.X, b.R.Y, b.R.Z,
			b.V.X, b.V.Y, b.V.Z,
			b.F.X, b.F.Y, b.F.Z,
			b.Mass,
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveSnapshot writes the snapshot to path, replacing any existing file.
func SaveSnapshot(path string, bodies []dynamo.Body) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close snapshot: %w", cerr)
		}
	}()

	if err := WriteSnapshot(f, bodies); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
