package field

import "fmt"

// Parameter numbers identifying the two vector channels of a multi-record
// source, following the GFS convention.
const (
	ParamU = 2
	ParamV = 3
)

// Record is one already-decoded channel of a multi-record source: grid
// metadata plus a flat row-major data array. NaN marks missing samples.
type Record struct {
	Parameter int
	Def       GridDef
	Data      []float64
}

// BuildFromRecords assembles a field from the U and V channel records.
// It fails fast, before any grid is built, when either channel is absent
// or the two channels disagree on the grid shape.
func BuildFromRecords(records []Record) (*Field, error) {
	var u, v *Record
	for i := range records {
		switch records[i].Parameter {
		case ParamU:
			u = &records[i]
		case ParamV:
			v = &records[i]
		}
	}
	if u == nil {
		return nil, fmt.Errorf("%w: u (parameter %d)", ErrMissingChannel, ParamU)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: v (parameter %d)", ErrMissingChannel, ParamV)
	}
	if u.Def != v.Def {
		return nil, fmt.Errorf("%w: u=%+v v=%+v", ErrChannelMismatch, u.Def, v.Def)
	}
	if len(u.Data) != len(v.Data) {
		return nil, fmt.Errorf("%w: %d u samples vs %d v samples",
			ErrChannelMismatch, len(u.Data), len(v.Data))
	}
	return New(u.Def, u.Data, v.Data)
}
