package report

import (
	"bufio"
	"io"
	"strconv"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

// DefaultPrecision matches a stream's default %g formatting.
const DefaultPrecision = 6

// Console streams one line per step for the tracked body:
//
//	t rx ry rz vx vy vz
type Console struct {
	w         *bufio.Writer
	track     int
	precision int
	buf       []byte
}

func NewConsole(w io.Writer, track int) *Console {
	return &Console{
		w:         bufio.NewWriter(w),
		track:     track,
		precision: DefaultPrecision,
		buf:       make([]byte, 0, 128),
	}
}

// SetPrecision sets the number of significant digits; -1 prints the
// shortest representation that round-trips.
func (c *Console) SetPrecision(p int) { c.precision = p }

func (c *Console) OnStep(step int, t float64, bodies []dynamo.Body) error {
	b := bodies[c.track]

	c.buf = c.buf[:0]
	for i, v := range [...]float64{t, b.R.X, b.R.Y, b.R.Z, b.V.X, b.V.Y, b.V.Z} {
		if i > 0 {
			c.buf = append(c.buf, ' ')
		}
		c.buf = strconv.AppendFloat(c.buf, v, 'g', c.precision, 64)
	}
	c.buf = append(c.buf, '\n')

	_, err := c.w.Write(c.buf)
	return err
}

func (c *Console) Flush() error {
	return c.w.Flush()
}
