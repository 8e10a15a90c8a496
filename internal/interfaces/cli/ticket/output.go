package ticket

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"ticketd/internal/application/ticket/dto"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func renderOne(w io.Writer, format string, t *dto.TicketDTO) error {
	return render(w, format, []*dto.TicketDTO{t})
}

func render(w io.Writer, format string, tickets []*dto.TicketDTO) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tickets)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tickets); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		return renderTable(w, tickets)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderTable(w io.Writer, tickets []*dto.TicketDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tORDER\tPRODUCT\tOWNER\tSTATUS\tCODE\tUPDATED")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			t.Key, t.OrderID, t.ProductID, t.OwnerID, t.Status, t.UniqueCode,
			t.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
