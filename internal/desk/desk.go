// Package desk implements the counter terminal commands of washdesk.
package desk

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/a2sh3r/expresswash/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

var ErrUsage = errors.New("usage error")

type command struct {
	summary   string
	needStore bool
	run       func(d *Desk, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"prices":        {summary: "show the rate card", run: (*Desk).prices},
	"bill":          {summary: "quote quantities without saving", run: (*Desk).bill},
	"create":        {summary: "save a new order and issue a receipt", needStore: true, run: (*Desk).create},
	"list":          {summary: "list orders, newest first", needStore: true, run: (*Desk).list},
	"show":          {summary: "show one order", needStore: true, run: (*Desk).show},
	"update":        {summary: "replace the fields of an order", needStore: true, run: (*Desk).update},
	"delete":        {summary: "delete an order (requires -yes)", needStore: true, run: (*Desk).delete},
	"export":        {summary: "write orders as csv or xlsx", needStore: true, run: (*Desk).export},
	"stats":         {summary: "show sales analytics", needStore: true, run: (*Desk).stats},
	"hash-password": {summary: "print the bcrypt hash for OPERATOR_PASSWORD_HASH", run: (*Desk).hashPassword},
}

// NeedsStore reports whether name talks to the database.
func NeedsStore(name string) bool {
	return commands[name].needStore
}

type Desk struct {
	orders    service.OrderService
	analytics service.AnalyticsService
	rates     pricing.Rates
	out       io.Writer
	now       func() time.Time
}

func New(orders service.OrderService, analytics service.AnalyticsService, rates pricing.Rates, out io.Writer) *Desk {
	return &Desk{
		orders:    orders,
		analytics: analytics,
		rates:     rates,
		out:       out,
		now:       time.Now,
	}
}

// Run executes args[0] with the remaining args as its flags.
func (d *Desk) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		d.Usage()
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		d.Usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(d, ctx, args[1:])
}

func (d *Desk) Usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(d.out, "usage: washdesk [-d dsn] [-s driver] <command> [flags]")
	fmt.Fprintln(d.out)
	for _, name := range names {
		fmt.Fprintf(d.out, "  %-14s %s\n", name, commands[name].summary)
	}
}

func (d *Desk) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(d.out)
	return fs
}

// decimalFlag parses a flag value with shopspring/decimal.
type decimalFlag struct {
	value decimal.Decimal
}

func (f *decimalFlag) String() string {
	return f.value.String()
}

func (f *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

// dateFlag holds a YYYY-MM-DD date; unset means no date.
type dateFlag struct {
	value *time.Time
}

func (f *dateFlag) String() string {
	if f.value == nil {
		return ""
	}
	return f.value.Format(models.DateLayout)
}

func (f *dateFlag) Set(s string) error {
	v, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return fmt.Errorf("want YYYY-MM-DD: %w", err)
	}
	f.value = &v
	return nil
}

// orderFlags registers the fields shared by create and update.
type orderFlags struct {
	name     string
	mobile   string
	date     dateFlag
	regular  decimalFlag
	blankets decimalFlag
	white    int64
}

func (o *orderFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.name, "name", "", "customer name")
	fs.StringVar(&o.mobile, "mobile", "", "customer mobile number")
	fs.Var(&o.date, "date", "order date YYYY-MM-DD (default today)")
	fs.Var(&o.regular, "regular", "regular clothes in kg")
	fs.Var(&o.blankets, "blankets", "blankets in kg")
	fs.Int64Var(&o.white, "white", 0, "white clothes pieces")
}

func (o *orderFlags) input(today time.Time) models.OrderInput {
	date := o.date.value
	if date == nil {
		d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		date = &d
	}
	return models.OrderInput{
		CustomerName: o.name,
		MobileNumber: o.mobile,
		OrderDate:    date,
		RegularKg:    o.regular.value,
		BlanketsKg:   o.blankets.value,
		WhitePieces:  o.white,
	}
}

func newTable(w io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	return table
}

func receipt(o models.Order) string {
	if o.ReceiptNumber == nil {
		return "-"
	}
	return *o.ReceiptNumber
}
