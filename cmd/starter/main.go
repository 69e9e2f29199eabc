package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"marketplace-dashboard/internal/catalog"
	"marketplace-dashboard/internal/config"
	"marketplace-dashboard/internal/dashboard"
	"marketplace-dashboard/internal/logging"
	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
	"marketplace-dashboard/internal/txsim"
	"marketplace-dashboard/internal/workflows"
)

// starter buys one listing from the command line and follows its toast until
// it disappears. With --engine temporal it runs the purchase as a workflow
// against a Temporal frontend, hosting the worker in-process.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type buyOptions struct {
	engine       string
	hostPort     string
	namespace    string
	timing       modal.Timing
	failAfter    time.Duration
	dismissAfter time.Duration
	timeout      time.Duration
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "starter",
		Short:         "Simulate marketplace purchases from the command line",
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.AddCommand(newListingsCmd(), newBuyCmd())
	return root
}

func newListingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "List the marketplace listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSELLER\tTRUST")
			for _, l := range catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d SUI\t%s\t%d %s\n",
					l.ID, l.Title, l.Category.Label(), l.Price,
					catalog.FormatAddress(l.Seller.Address), l.Seller.Reputation, catalog.TrustLabel(l.Seller.Reputation))
			}
			return tw.Flush()
		},
	}
}

func newBuyCmd() *cobra.Command {
	def := txsim.DefaultTiming()
	opts := buyOptions{}
	cmd := &cobra.Command{
		Use:   "buy <listingId>",
		Short: "Buy a listing and print every toast change until it is removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuy(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.engine, "engine", config.EngineLocal, "transaction engine: local or temporal")
	f.StringVar(&opts.hostPort, "temporal-host-port", "localhost:7233", "Temporal frontend address")
	f.StringVar(&opts.namespace, "temporal-namespace", "default", "Temporal namespace")
	f.DurationVar(&opts.timing.VerifyAfter, "verify-after", def.VerifyAfter, "delay before verifying")
	f.DurationVar(&opts.timing.ConfirmAfter, "confirm-after", def.ConfirmAfter, "delay before confirmed")
	f.DurationVar(&opts.timing.RemoveAfter, "remove-after", def.RemoveAfter, "delay before the toast is removed")
	f.DurationVar(&opts.failAfter, "fail-after", 0, "force the purchase to fail after this delay (0 = never)")
	f.DurationVar(&opts.dismissAfter, "dismiss-after", 0, "dismiss the toast after this delay (0 = never)")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

func runBuy(ctx context.Context, out io.Writer, listingID string, opts buyOptions) error {
	if err := opts.timing.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	gone := make(chan string, 16)

	// Timer callbacks keep firing after we return; stop printing at that point.
	var mu sync.Mutex
	closed := false
	defer func() {
		mu.Lock()
		closed = true
		mu.Unlock()
	}()

	queue := toast.NewQueue(toast.WithObserver(func(ev toast.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		elapsed := time.Since(start).Round(10 * time.Millisecond)
		switch ev.Kind {
		case toast.EventRemoved:
			fmt.Fprintf(out, "%8s  %-9s %s\n", elapsed, "removed", ev.Record.ID)
			select {
			case gone <- ev.Record.ID:
			default:
			}
		default:
			fmt.Fprintf(out, "%8s  %-9s %s %q %s\n", elapsed, ev.Record.State, ev.Record.ID, ev.Record.Title, ev.Record.ResultObjectID)
		}
	}))

	logger := logging.Nop()
	var engine dashboard.Engine
	switch opts.engine {
	case config.EngineLocal:
		sim, err := txsim.New(queue, txsim.WithTiming(opts.timing))
		if err != nil {
			return err
		}
		engine = sim
	case config.EngineTemporal:
		c, err := client.Dial(client.Options{HostPort: opts.hostPort, Namespace: opts.namespace, Logger: logger})
		if err != nil {
			return fmt.Errorf("unable to create Temporal client: %w", err)
		}
		defer c.Close()

		w := workflows.NewWorker(c, workflows.TaskQueue, queue)
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		e, err := workflows.NewEngine(c, queue, workflows.EngineOptions{Timing: opts.timing, Logger: logger})
		if err != nil {
			return err
		}
		engine = e
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownEngine, opts.engine)
	}

	svc := dashboard.NewService(engine, queue, "", logger)
	rec, err := svc.Buy(ctx, listingID)
	if err != nil {
		return err
	}

	var failC, dismissC <-chan time.Time
	if opts.failAfter > 0 {
		failC = time.After(opts.failAfter)
	}
	if opts.dismissAfter > 0 {
		dismissC = time.After(opts.dismissAfter)
	}

	for {
		select {
		case id := <-gone:
			if id == rec.ID {
				return nil
			}
		case <-failC:
			if err := svc.Fail(ctx, rec.ID); err != nil {
				return err
			}
		case <-dismissC:
			if err := svc.Dismiss(ctx, rec.ID); err != nil {
				return err
			}
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", rec.ID, ctx.Err())
		}
	}
}
