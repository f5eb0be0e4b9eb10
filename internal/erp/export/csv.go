package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV 表头为字段名，第二行为字段值
func WriteCSV(w io.Writer, doc Document) error {
	header := make([]string, 0, len(doc.Fields))
	values := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		header = append(header, f.Key)
		values = append(values, f.Value)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(values); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
