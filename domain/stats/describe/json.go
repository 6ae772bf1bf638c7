package describe

import (
	"encoding/json"
	"fmt"
)

type wireStat struct {
	Key       StatKey  `json:"key"`
	Value     *float64 `json:"value,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
}

type wireColumn struct {
	Name  string     `json:"name"`
	Total int        `json:"total"`
	Stats []wireStat `json:"stats"`
}

type wireReport struct {
	Columns []wireColumn `json:"columns"`
}

// MarshalJSON encodes the report in column and key order. Failed statistics
// carry their message and kind instead of a value.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := wireReport{Columns: make([]wireColumn, 0, len(r.records))}
	for _, rec := range r.records {
		col := wireColumn{Name: rec.name, Total: rec.total, Stats: make([]wireStat, 0, NumKeys)}
		for _, s := range rec.stats {
			ws := wireStat{Key: s.Key}
			if s.Err != nil {
				ws.Error = s.Err.Error()
				ws.ErrorKind = ErrorKind(s.Err)
			} else {
				v := s.Value
				ws.Value = &v
			}
			col.Stats = append(col.Stats, ws)
		}
		out.Columns = append(out.Columns, col)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a report written by MarshalJSON. Statistic errors
// are rebuilt from their kind so errors.Is keeps working.
func (r *Report) UnmarshalJSON(data []byte) error {
	var in wireReport
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	records := make([]*ColumnStats, 0, len(in.Columns))
	for _, col := range in.Columns {
		values := make(map[StatKey]float64, NumKeys)
		errs := make(map[StatKey]error)
		for _, ws := range col.Stats {
			switch {
			case ws.ErrorKind != "":
				errs[ws.Key] = errorFromKind(ws.ErrorKind)
			case ws.Value != nil:
				values[ws.Key] = *ws.Value
			default:
				return fmt.Errorf("column %q: statistic %s has neither value nor error", col.Name, ws.Key)
			}
		}
		rec, err := NewColumnStats(col.Name, col.Total, values, errs)
		if err != nil {
			return fmt.Errorf("column %q: %w", col.Name, err)
		}
		records = append(records, rec)
	}
	restored, err := NewReport(records...)
	if err != nil {
		return err
	}
	*r = *restored
	return nil
}
