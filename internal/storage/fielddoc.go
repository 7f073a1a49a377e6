package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/windtrail/internal/field"
)

// Document is the on-disk shape of already-decoded grid data: metadata
// plus the two flat channels. JSON nulls in the channels mark missing
// samples.
type Document struct {
	XMin   float64    `json:"xmin"`
	XMax   float64    `json:"xmax"`
	YMin   float64    `json:"ymin"`
	YMax   float64    `json:"ymax"`
	Cols   int        `json:"cols"`
	Rows   int        `json:"rows"`
	DeltaX float64    `json:"dx"`
	DeltaY float64    `json:"dy"`
	U      []*float64 `json:"u"`
	V      []*float64 `json:"v"`
}

func (d *Document) def() field.GridDef {
	return field.GridDef{
		XMin: d.XMin, XMax: d.XMax, YMin: d.YMin, YMax: d.YMax,
		Cols: d.Cols, Rows: d.Rows, DeltaX: d.DeltaX, DeltaY: d.DeltaY,
	}
}

// Records converts the document into channel records, leaving out any
// channel that is absent so BuildFromRecords can fail fast on it.
func (d *Document) Records() []field.Record {
	var records []field.Record
	if d.U != nil {
		records = append(records, field.Record{
			Parameter: field.ParamU, Def: d.def(), Data: denull(d.U),
		})
	}
	if d.V != nil {
		records = append(records, field.Record{
			Parameter: field.ParamV, Def: d.def(), Data: denull(d.V),
		})
	}
	return records
}

// LoadField reads a field document and builds the field from it.
func LoadField(path string) (*field.Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: bad field document %s: %w", path, err)
	}
	return field.BuildFromRecords(doc.Records())
}

// SaveField writes grid data as a field document.
func SaveField(path string, def field.GridDef, us, vs []float64) error {
	doc := Document{
		XMin: def.XMin, XMax: def.XMax, YMin: def.YMin, YMax: def.YMax,
		Cols: def.Cols, Rows: def.Rows, DeltaX: def.DeltaX, DeltaY: def.DeltaY,
		U: renull(us), V: renull(vs),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	return enc.Encode(doc)
}

func denull(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, p := range in {
		if p == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *p
		}
	}
	return out
}

func renull(in []float64) []*float64 {
	out := make([]*float64, len(in))
	for i := range in {
		if math.IsNaN(in[i]) || math.IsInf(in[i], 0) {
			continue
		}
		v := in[i]
		out[i] = &v
	}
	return out
}
