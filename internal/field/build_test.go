package field

import (
	"errors"
	"testing"
)

func TestBuildFromRecords(t *testing.T) {
	def := GridDef{XMin: 0, XMax: 2, YMin: 0, YMax: 2, Cols: 2, Rows: 2, DeltaX: 1, DeltaY: 1}
	data := []float64{1, 1, 1, 1}

	t.Run("both channels present", func(t *testing.T) {
		f, err := BuildFromRecords([]Record{
			{Parameter: ParamU, Def: def, Data: data},
			{Parameter: ParamV, Def: def, Data: data},
		})
		if err != nil {
			t.Fatalf("BuildFromRecords: %v", err)
		}
		if _, ok := f.NearestAt(1, 1); !ok {
			t.Error("built field has no value")
		}
	})

	t.Run("irrelevant records ignored", func(t *testing.T) {
		_, err := BuildFromRecords([]Record{
			{Parameter: 7, Def: def, Data: data},
			{Parameter: ParamU, Def: def, Data: data},
			{Parameter: ParamV, Def: def, Data: data},
		})
		if err != nil {
			t.Errorf("BuildFromRecords: %v", err)
		}
	})

	t.Run("missing v channel", func(t *testing.T) {
		_, err := BuildFromRecords([]Record{{Parameter: ParamU, Def: def, Data: data}})
		if !errors.Is(err, ErrMissingChannel) {
			t.Errorf("error = %v, want ErrMissingChannel", err)
		}
	})

	t.Run("missing u channel", func(t *testing.T) {
		_, err := BuildFromRecords([]Record{{Parameter: ParamV, Def: def, Data: data}})
		if !errors.Is(err, ErrMissingChannel) {
			t.Errorf("error = %v, want ErrMissingChannel", err)
		}
	})

	t.Run("no records at all", func(t *testing.T) {
		_, err := BuildFromRecords(nil)
		if !errors.Is(err, ErrMissingChannel) {
			t.Errorf("error = %v, want ErrMissingChannel", err)
		}
	})

	t.Run("grid definition mismatch", func(t *testing.T) {
		other := def
		other.Cols = 4
		_, err := BuildFromRecords([]Record{
			{Parameter: ParamU, Def: def, Data: data},
			{Parameter: ParamV, Def: other, Data: []float64{1, 1, 1, 1, 1, 1, 1, 1}},
		})
		if !errors.Is(err, ErrChannelMismatch) {
			t.Errorf("error = %v, want ErrChannelMismatch", err)
		}
	})
}
