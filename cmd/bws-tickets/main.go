// bws-tickets is a terminal browser for the weighbridge ticket lists. It
// loads one ticket collection from a bws server and filters it locally as
// you type.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bitfantasy/bws/internal/config"
	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/bitfantasy/bws/internal/shared/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

type options struct {
	server   string
	username string
	password string
	kind     string
	from     string
	to       string
	debounce time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("bws-tickets", pflag.ContinueOnError)
	flagSet.StringVar(&opts.server, "server", config.GetEnvOrDefault("BWS_SERVER", "http://localhost:8080"), "bws server base URL")
	flagSet.StringVarP(&opts.username, "username", "u", config.GetEnvOrDefault("BWS_USERNAME", ""), "login name")
	flagSet.StringVarP(&opts.password, "password", "p", config.GetEnvOrDefault("BWS_PASSWORD", ""), "login password")
	flagSet.StringVarP(&opts.kind, "kind", "k", "purchase", "ticket list to open: sales or purchase")
	flagSet.StringVar(&opts.from, "from", "", "earliest ticket date (YYYY-MM-DD)")
	flagSet.StringVar(&opts.to, "to", "", "latest ticket date, inclusive (YYYY-MM-DD)")
	flagSet.DurationVar(&opts.debounce, "debounce", ticket.DefaultSearchDebounce, "quiet time before typed search is applied")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.username == "" || opts.password == "" {
		return fmt.Errorf("--username and --password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := newAPIClient(opts.server)
	if err := client.login(ctx, opts.username, opts.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	// 未显式指定时使用服务端配置
	if !flagSet.Changed("debounce") {
		if d, err := client.searchDebounce(ctx); err == nil && d > 0 {
			opts.debounce = d
		}
	}

	switch opts.kind {
	case string(entity.TicketKindSales):
		return browse(ctx, client, opts, salesLayout())
	case string(entity.TicketKindPurchase):
		return browse(ctx, client, opts, purchaseLayout())
	default:
		return fmt.Errorf("unknown --kind %q, want sales or purchase", opts.kind)
	}
}

func browse[T ticket.Record](ctx context.Context, client *apiClient, opts options, l layout[T]) error {
	tickets, err := listTickets[T](ctx, client, opts.kind, opts.from, opts.to)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}

	var program *tea.Program
	session := ticket.NewSearchSession(clock.Real(), opts.debounce, func([]T) {
		if program != nil {
			// called from the update loop too; Send must not block it
			go program.Send(refreshMsg{})
		}
	})
	session.Load(tickets)
	session.SetDateRange(opts.from, opts.to)

	program = tea.NewProgram(newModel(l, session, len(tickets)), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
