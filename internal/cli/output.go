package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hongminglow/club-finder/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeClubs(w io.Writer, format string, clubs []models.Club) error {
	if format == "json" {
		return writeJSON(w, clubs)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tSPORTS\tPRICE\tSTATUS")
	for _, c := range clubs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.City, strings.Join(c.Sports, ","), c.PriceRange, clubStatus(c))
	}
	return tw.Flush()
}

func writeClub(w io.Writer, format string, c models.Club) error {
	if format == "json" {
		return writeJSON(w, c)
	}
	rating := "-"
	if c.Rating != nil {
		rating = fmt.Sprintf("%.1f", *c.Rating)
	}
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "  status:     %s\n", clubStatus(c))
	fmt.Fprintf(w, "  city:       %s\n", c.City)
	fmt.Fprintf(w, "  address:    %s\n", c.Address)
	fmt.Fprintf(w, "  sports:     %s\n", strings.Join(c.Sports, ", "))
	fmt.Fprintf(w, "  facilities: %s\n", strings.Join(c.Facilities, ", "))
	fmt.Fprintf(w, "  price:      %s\n", c.PriceRange)
	fmt.Fprintf(w, "  rating:     %s\n", rating)
	if c.Description != "" {
		fmt.Fprintf(w, "\n%s\n", c.Description)
	}
	return nil
}

func clubStatus(c models.Club) string {
	switch {
	case !c.IsApproved:
		return "pending"
	case c.IsPremium:
		return "premium"
	default:
		return "approved"
	}
}
