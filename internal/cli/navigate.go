package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/club-finder/internal/guard"
)

type navigationView struct {
	Route    string `json:"route"`
	Outcome  string `json:"outcome"`
	Location string `json:"location,omitempty"`
}

// NewNavigateCommand reports what the route guard decides for a path.
func NewNavigateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate PATH",
		Short: "Show whether the current session may open PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, decision := guard.New(root.Client(), root.Log).CheckPath(cmd.Context(), args[0])
			view := navigationView{
				Route:    route.Name,
				Outcome:  decision.Outcome.String(),
				Location: decision.Location(),
			}
			if root.Format == "json" {
				return writeJSON(out(cmd), view)
			}
			if decision.Allowed() {
				fmt.Fprintf(out(cmd), "allow %s (%s)\n", args[0], view.Route)
				return nil
			}
			fmt.Fprintf(out(cmd), "redirect %s -> %s\n", args[0], view.Location)
			return nil
		},
	}
}
