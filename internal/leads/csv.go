package leads

import (
	"encoding/csv"
	"io"
	"time"
)

// csvHeader fixes the export column order; the admin UI and the archive
// both rely on it.
var csvHeader = []string{"Name", "Email", "Company", "Phone", "Service", "Budget", "Status", "Date"}

// WriteCSV writes the given leads as CSV: one header line plus one line per
// lead, values verbatim from the records in the given order.
func WriteCSV(w io.Writer, records []*Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range records {
		row := []string{
			l.Name,
			l.Email,
			l.Company,
			l.Phone,
			l.Service,
			l.Budget,
			l.Status,
			l.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
