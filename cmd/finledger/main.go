package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"finledger/internal/amqp"
	"finledger/internal/auth"
	"finledger/internal/cli"
	"finledger/internal/core"
	"finledger/internal/report"
	"finledger/internal/services"
	"finledger/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	authenticator := cli.InitAuthenticator(logger, cfg)

	// Change events are optional: without a broker the ledger still
	// works, only the archive mirror goes stale.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	app := &app{
		in:            bufio.NewScanner(os.Stdin),
		out:           os.Stdout,
		store:         store,
		authenticator: authenticator,
		publisher:     publisher,
		now:           time.Now,
	}
	if err := app.run(context.Background()); err != nil {
		logger.Error("Session ended with error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	in            *bufio.Scanner
	out           io.Writer
	store         storage.Store
	authenticator *auth.Authenticator
	publisher     services.ChangePublisher
	now           func() time.Time
}

func (a *app) run(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "\n--- Welcome! Please Choose an Option ---")
		fmt.Fprintln(a.out, "1. Register")
		fmt.Fprintln(a.out, "2. Login")
		fmt.Fprintln(a.out, "3. Exit")

		switch a.prompt("\nEnter your choice: ") {
		case "1":
			user, err := a.register(ctx)
			if err != nil {
				fmt.Fprintf(a.out, "\n[!] %v\n", err)
				continue
			}
			if err := a.session(ctx, user); err != nil {
				return err
			}
		case "2":
			user, err := a.login(ctx)
			if err != nil {
				fmt.Fprintf(a.out, "\n[!] %v\n", err)
				continue
			}
			if err := a.session(ctx, user); err != nil {
				return err
			}
		case "3":
			fmt.Fprintln(a.out, "\nGoodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "\n[!] Invalid choice. Please try again.")
		}
	}
}

func (a *app) register(ctx context.Context) (auth.UserID, error) {
	fmt.Fprintln(a.out, "\n--- User Registration ---")
	username := a.prompt("Enter a new username: ")
	password := a.prompt("Enter a new password: ")
	return a.authenticator.Register(ctx, username, password)
}

func (a *app) login(ctx context.Context) (auth.UserID, error) {
	fmt.Fprintln(a.out, "\n--- User Login ---")
	username := a.prompt("Enter your username: ")
	password := a.prompt("Enter your password: ")
	return a.authenticator.Authenticate(ctx, username, password)
}

// session runs the logged-in menu loop over one ledger service,
// loaded once at login.
func (a *app) session(ctx context.Context, user auth.UserID) error {
	svc := services.NewLedgerService(string(user), a.store, a.publisher)
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load ledger for %s: %w", user, err)
	}
	slog.InfoContext(ctx, "Ledger session started", "user", user)

	for {
		fmt.Fprintf(a.out, "\n--- Welcome, %s! ---\n", user)
		fmt.Fprintln(a.out, "1. Add Finance Record")
		fmt.Fprintln(a.out, "2. View Report")
		fmt.Fprintln(a.out, "3. Delete Record")
		fmt.Fprintln(a.out, "4. Update Record")
		fmt.Fprintln(a.out, "5. Total Income and Expenses")
		fmt.Fprintln(a.out, "6. Spending Distribution by Category")
		fmt.Fprintln(a.out, "7. Monthly Spending Trends")
		fmt.Fprintln(a.out, "8. Logout")

		switch a.prompt("\nEnter your choice: ") {
		case "1":
			a.addRecord(ctx, svc)
		case "2":
			a.viewReport(svc)
		case "3":
			a.deleteRecord(ctx, svc)
		case "4":
			a.updateRecord(ctx, svc)
		case "5":
			a.showTotals(svc)
		case "6":
			a.showDistribution(svc)
		case "7":
			a.showTrends(svc)
		case "8":
			fmt.Fprintf(a.out, "\nUser '%s' logged out.\n", user)
			return nil
		default:
			fmt.Fprintln(a.out, "\n[!] Invalid choice. Please try again.")
		}
	}
}

// inputRecord builds a record from user input. Invalid categories are
// reported and the record discarded, never stored.
func (a *app) inputRecord() (core.Record, bool) {
	fmt.Fprintln(a.out, "\n--- New Finance Record ---")
	description := a.prompt("Enter the description: ")
	amount, err := core.ParseAmount(a.prompt("Enter the amount: "))
	if err != nil {
		fmt.Fprintf(a.out, "\n[!] %v\n", err)
		return core.Record{}, false
	}
	fmt.Fprintln(a.out, "Select the category:")
	fmt.Fprintln(a.out, "1. Income")
	fmt.Fprintln(a.out, "2. Expense")
	choice := a.prompt("Enter your choice (1/2): ")

	rec, err := core.NewRecord(description, amount, choice, a.now())
	if err != nil {
		fmt.Fprintf(a.out, "\n[!] %v. Record will not be added.\n", err)
		return core.Record{}, false
	}
	return rec, true
}

func (a *app) addRecord(ctx context.Context, svc *services.LedgerService) {
	rec, ok := a.inputRecord()
	if !ok {
		return
	}
	if err := svc.Add(ctx, rec); err != nil {
		fmt.Fprintf(a.out, "\n[!] %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "\nFinance record added.")
}

func (a *app) viewReport(svc *services.LedgerService) {
	fmt.Fprint(a.out, "\n", report.Records(svc.Records()))
	stats, err := svc.Describe()
	if err != nil {
		if !errors.Is(err, core.ErrNoRecords) {
			fmt.Fprintf(a.out, "\n[!] %v\n", err)
		}
		return
	}
	fmt.Fprint(a.out, "\n", report.Stats(stats))
}

// promptIndex asks for a 1-based record number and translates it to a
// 0-based index. Bounds are the service's concern, not this layer's.
func (a *app) promptIndex(what string) (int, bool) {
	raw := a.prompt(fmt.Sprintf("Enter the record number to %s: ", what))
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintf(a.out, "\n[!] Invalid record number %q.\n", raw)
		return 0, false
	}
	return n - 1, true
}

func (a *app) deleteRecord(ctx context.Context, svc *services.LedgerService) {
	fmt.Fprint(a.out, "\n", report.Records(svc.Records()))
	index, ok := a.promptIndex("delete")
	if !ok {
		return
	}
	if err := svc.Delete(ctx, index); err != nil {
		fmt.Fprintf(a.out, "\n[!] %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "\nRecord deleted.")
}

func (a *app) updateRecord(ctx context.Context, svc *services.LedgerService) {
	fmt.Fprint(a.out, "\n", report.Records(svc.Records()))
	index, ok := a.promptIndex("update")
	if !ok {
		return
	}
	rec, ok := a.inputRecord()
	if !ok {
		return
	}
	if err := svc.Update(ctx, index, rec); err != nil {
		fmt.Fprintf(a.out, "\n[!] %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "\nRecord updated.")
}

func (a *app) showTotals(svc *services.LedgerService) {
	totals, err := svc.Totals()
	if err != nil {
		a.reportAggregateError(err)
		return
	}
	fmt.Fprint(a.out, "\n--- Financial Overview ---\n", report.Totals(totals))
}

func (a *app) showDistribution(svc *services.LedgerService) {
	dist, err := svc.Distribution()
	if err != nil {
		a.reportAggregateError(err)
		return
	}
	fmt.Fprint(a.out, "\n--- Spending Distribution by Category ---\n", report.Distribution(dist))
}

func (a *app) showTrends(svc *services.LedgerService) {
	table, err := svc.MonthlyTrends()
	if err != nil {
		a.reportAggregateError(err)
		return
	}
	fmt.Fprint(a.out, "\n--- Monthly Spending Trends ---\n", report.Trends(table))
}

func (a *app) reportAggregateError(err error) {
	if errors.Is(err, core.ErrNoRecords) {
		fmt.Fprintln(a.out, "\n[!] No records available.")
		return
	}
	fmt.Fprintf(a.out, "\n[!] %v\n", err)
}

func (a *app) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}
