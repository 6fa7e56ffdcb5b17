package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer writes command results in the selected format. Table output is
// built by the caller; json and yaml encode the raw value.
type printer struct {
	out    io.Writer
	format string
}

func (p *printer) print(v any, table func(*uitable.Table)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		// Round-trip through JSON so yaml keys follow the API's camelCase names.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		t := uitable.New()
		t.MaxColWidth = 60
		t.Wrap = true
		table(t)
		_, err := fmt.Fprintln(p.out, t)
		return err
	}
}

// keyValues renders label/value pairs as a two-column table.
func keyValues(pairs ...any) func(*uitable.Table) {
	return func(t *uitable.Table) {
		for i := 0; i+1 < len(pairs); i += 2 {
			t.AddRow(fmt.Sprintf("%v:", pairs[i]), pairs[i+1])
		}
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func formatUSD(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}
