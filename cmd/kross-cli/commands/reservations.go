package commands

import (
	"fmt"
	"krossbooking/internal/components/chrono"
	"krossbooking/lib/scrapers/kross"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	reservationFilters []string
	reservationFields  []string
	reservationFormat  string
	simplified         bool
	upcomingDays       int
)

func init() {
	reservationsCmd.Flags().StringArrayVarP(&reservationFilters, "filter", "f", nil, `A filter like "arrival>=15/02/2025", can be repeated.`)
	reservationsCmd.Flags().StringArrayVar(&reservationFields, "field", nil, `A column to request ("departure", "Status", "N_ROOMS"), can be repeated.`)
	reservationsCmd.Flags().StringVar(&reservationFormat, "format", formatTable, fmt.Sprintf("The output format, one of %v.", formats))
	reservationsCmd.Flags().IntVar(&upcomingDays, "upcoming", -1, "Only lists reservations arriving between today and this many days from now, in the hotel's timezone.")
	reservationsCmd.Flags().BoolVar(&simplified, "simplified", false, "Outputs headers once and positional rows (json only).")
	rootCmd.AddCommand(reservationsCmd)
}

func parseQuery(filters, fields []string) (kross.Query, error) {
	var q kross.Query
	for _, expr := range filters {
		filter, err := kross.ParseFilter(expr)
		if err != nil {
			return kross.Query{}, err
		}
		q.Filters = append(q.Filters, filter)
	}
	for _, name := range fields {
		field, err := resolveField(name)
		if err != nil {
			return kross.Query{}, err
		}
		q.Fields = append(q.Fields, field)
	}
	return q, nil
}

func resolveField(name string) (kross.Field, error) {
	field, ok := kross.FieldFromName(name)
	if ok {
		return field, nil
	}
	suggestion, similarity := kross.SuggestField(name)
	if similarity >= 0.8 {
		return 0, fmt.Errorf("%w: %q (did you mean %q?)", kross.ErrUnknownField, name, suggestion.Key())
	}
	return 0, fmt.Errorf("%w: %q, run `kross-cli fields` to list them", kross.ErrUnknownField, name)
}

// upcomingFilters selects the arrivals from today to today + days inclusive.
func upcomingFilters(clock chrono.API, days int) []kross.Filter {
	today := chrono.StartOfDay(clock.Now())
	return []kross.Filter{
		kross.DateFilter(kross.FieldArrival, kross.GreaterOrEqual, today),
		kross.DateFilter(kross.FieldArrival, kross.LessOrEqual, today.AddDate(0, 0, days)),
	}
}

var reservationsCmd = &cobra.Command{
	Use:   "reservations [--filter <expr>]... [--field <name>]... [--upcoming <days>] [--format table|json|csv] [--simplified]",
	Short: "Lists the reservations of the configured hotel.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery(reservationFilters, reservationFields)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if upcomingDays >= 0 {
			clock, err := cfg.clock()
			if err != nil {
				return err
			}
			q.Filters = append(q.Filters, upcomingFilters(clock, upcomingDays)...)
		}
		if _, err := kross.BuildFilters(q.Filters...); err != nil {
			return err
		}

		client, err := login(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		t1 := time.Now()
		table, err := client.ReservationsTable(cmd.Context(), q)
		if err != nil {
			return err
		}
		slog.Debug("fetched reservations", "rows", len(table.Rows), "seconds", time.Since(t1).Seconds())

		return writeReservations(cmd.OutOrStdout(), table, reservationFormat, simplified)
	},
}
