package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/club-finder/internal/catalog"
	"github.com/hongminglow/club-finder/internal/storage"
)

// ClubsOptions holds the filter flags of `clubs list`.
type ClubsOptions struct {
	*RootOptions
	City       string
	Sports     []string
	Facilities []string
	Price      string
	Query      string
	Pending    bool
}

// NewClubsCommand groups the catalog subcommands.
func NewClubsCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "List, inspect and approve clubs",
	}
	cmd.AddCommand(newClubsListCommand(root))
	cmd.AddCommand(newClubsShowCommand(root))
	cmd.AddCommand(newClubsApproveCommand(root))
	return cmd
}

func newClubsListCommand(root *RootOptions) *cobra.Command {
	opts := &ClubsOptions{RootOptions: root}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approved clubs matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := catalog.NewStore(opts.Client(), opts.Log)
			store.ReplaceFilters(catalog.Filters{
				City:        opts.City,
				Sports:      opts.Sports,
				PriceRange:  opts.Price,
				Facilities:  opts.Facilities,
				SearchQuery: opts.Query,
			})
			if opts.Pending {
				store.FetchPending(cmd.Context())
			} else {
				store.FetchAll(cmd.Context())
			}
			if msg := store.Err(); msg != "" {
				return fmt.Errorf("fetch clubs: %s", msg)
			}
			return writeClubs(out(cmd), opts.Format, store.Filtered())
		},
	}
	cmd.Flags().StringVar(&opts.City, "city", "", "exact city")
	cmd.Flags().StringSliceVar(&opts.Sports, "sport", nil, "sport tag (any of, repeatable)")
	cmd.Flags().StringSliceVar(&opts.Facilities, "facility", nil, "facility tag (any of, repeatable)")
	cmd.Flags().StringVar(&opts.Price, "price", "", "exact price range")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "text in name, description or address")
	cmd.Flags().BoolVar(&opts.Pending, "pending", false, "list clubs awaiting approval instead")
	return cmd
}

func newClubsShowCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := catalog.NewStore(root.Client(), root.Log)
			club := store.FetchByID(cmd.Context(), args[0])
			if club == nil {
				if msg := store.Err(); msg != "" {
					return fmt.Errorf("fetch club: %s", msg)
				}
				return fmt.Errorf("club %s: %w", args[0], storage.ErrNotFound)
			}
			return writeClub(out(cmd), root.Format, *club)
		},
	}
}

func newClubsApproveCommand(root *RootOptions) *cobra.Command {
	var premium bool
	cmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a pending club (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := catalog.NewStore(root.Client(), root.Log)
			club, err := store.Approve(cmd.Context(), args[0], premium)
			if err != nil {
				if errors.Is(err, catalog.ErrClubNotFound) {
					return fmt.Errorf("club %s not found", args[0])
				}
				return fmt.Errorf("approve club: %w", err)
			}
			return writeClub(out(cmd), root.Format, club)
		},
	}
	cmd.Flags().BoolVar(&premium, "premium", false, "also mark the club premium")
	return cmd
}
