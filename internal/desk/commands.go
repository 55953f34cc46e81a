package desk

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/a2sh3r/expresswash/internal/export"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/service"
)

func (d *Desk) prices(_ context.Context, args []string) error {
	if err := d.flagSet("prices").Parse(args); err != nil {
		return err
	}

	table := newTable(d.out, "Service", "Unit", "Rate")
	rows := [][]string{
		{"Regular clothes", "kg", d.rates.RegularPerKg.StringFixed(2)},
		{"Blankets", "kg", d.rates.BlanketsPerKg.StringFixed(2)},
		{"White clothes", "piece", d.rates.WhitePerPiece.StringFixed(2)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func (d *Desk) printBill(in models.OrderInput, bill models.Bill) error {
	bill = bill.Rounded()
	table := newTable(d.out, "Service", "Quantity", "Amount")
	rows := [][]string{
		{"Regular clothes", in.RegularKg.StringFixed(2) + " kg", bill.RegularCost.StringFixed(2)},
		{"Blankets", in.BlanketsKg.StringFixed(2) + " kg", bill.BlanketsCost.StringFixed(2)},
		{"White clothes", strconv.FormatInt(in.WhitePieces, 10) + " pcs", bill.WhiteCost.StringFixed(2)},
		{"Total", "", bill.Total.StringFixed(2)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func (d *Desk) bill(_ context.Context, args []string) error {
	var flags orderFlags
	fs := d.flagSet("bill")
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := flags.input(d.now())
	bill, err := d.orders.Quote(in)
	if err != nil {
		return err
	}
	return d.printBill(in, bill)
}

func (d *Desk) create(ctx context.Context, args []string) error {
	var flags orderFlags
	fs := d.flagSet("create")
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := d.orders.Create(ctx, flags.input(d.now()))
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "Order %d saved, receipt %s\n", order.ID, receipt(*order))
	return d.printOrders([]models.Order{*order})
}

func (d *Desk) printOrders(orders []models.Order) error {
	table := newTable(d.out, "ID", "Receipt", "Customer", "Mobile", "Date", "Regular kg", "Blankets kg", "White pcs", "Total", "Created")
	for _, o := range orders {
		err := table.Append([]string{
			strconv.FormatInt(o.ID, 10),
			receipt(o),
			o.CustomerName,
			o.MobileNumber,
			o.OrderDate.Format(models.DateLayout),
			o.RegularKg.StringFixed(2),
			o.BlanketsKg.StringFixed(2),
			strconv.FormatInt(o.WhitePieces, 10),
			o.TotalAmount.StringFixed(2),
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

type filterFlags struct {
	name  string
	date  dateFlag
	min   decimalFlag
	limit int
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "customer name contains")
	fs.Var(&f.date, "date", "order date YYYY-MM-DD")
	fs.Var(&f.min, "min", "minimum total")
	fs.IntVar(&f.limit, "limit", 0, "maximum rows (0 for all)")
}

func (f *filterFlags) filter() models.OrderFilter {
	filter := models.OrderFilter{Name: f.name, Date: f.date.value, Limit: f.limit}
	if !f.min.value.IsZero() {
		minimum := f.min.value
		filter.MinAmount = &minimum
	}
	return filter
}

func (d *Desk) list(ctx context.Context, args []string) error {
	var flags filterFlags
	fs := d.flagSet("list")
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := d.orders.List(ctx, flags.filter())
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(d.out, "No orders found")
		return nil
	}
	return d.printOrders(orders)
}

// idArg accepts the order id as -id or as the first positional argument.
func idArg(fs *flag.FlagSet, id int64) (int64, error) {
	if id == 0 && fs.NArg() > 0 {
		parsed, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid order id %q", ErrUsage, fs.Arg(0))
		}
		id = parsed
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: an order id is required", ErrUsage)
	}
	return id, nil
}

func (d *Desk) show(ctx context.Context, args []string) error {
	var rawID int64
	fs := d.flagSet("show")
	fs.Int64Var(&rawID, "id", 0, "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs, rawID)
	if err != nil {
		return err
	}

	order, err := d.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	return d.printOrders([]models.Order{*order})
}

func (d *Desk) update(ctx context.Context, args []string) error {
	var (
		rawID int64
		flags orderFlags
	)
	fs := d.flagSet("update")
	fs.Int64Var(&rawID, "id", 0, "order id")
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs, rawID)
	if err != nil {
		return err
	}
	if flags.date.value == nil {
		return fmt.Errorf("%w: -date is required for update", ErrUsage)
	}

	order, err := d.orders.Update(ctx, id, flags.input(d.now()))
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "Order %d updated\n", order.ID)
	return d.printOrders([]models.Order{*order})
}

func (d *Desk) delete(ctx context.Context, args []string) error {
	var (
		rawID int64
		yes   bool
	)
	fs := d.flagSet("delete")
	fs.Int64Var(&rawID, "id", 0, "order id")
	fs.BoolVar(&yes, "yes", false, "confirm the deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs, rawID)
	if err != nil {
		return err
	}
	if !yes {
		return fmt.Errorf("%w: refusing to delete order %d without -yes", ErrUsage, id)
	}

	if err := d.orders.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "Order %d deleted\n", id)
	return nil
}

func (d *Desk) export(ctx context.Context, args []string) (err error) {
	var (
		flags  filterFlags
		format string
		path   string
	)
	fs := d.flagSet("export")
	flags.register(fs)
	fs.StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	fs.StringVar(&path, "o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if export.ContentType(format) == "" {
		return fmt.Errorf("%w: unsupported format %q", ErrUsage, format)
	}

	orders, err := d.orders.List(ctx, flags.filter())
	if err != nil {
		return err
	}

	var w io.Writer = d.out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := export.Write(w, format, orders); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(d.out, "%d orders written to %s\n", len(orders), path)
	}
	return nil
}

func (d *Desk) stats(ctx context.Context, args []string) error {
	var days, top int
	fs := d.flagSet("stats")
	fs.IntVar(&days, "days", service.DefaultSummaryDays, "order dates in the daily table")
	fs.IntVar(&top, "top", service.DefaultTopCustomers, "customers in the top table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summary, err := d.analytics.Summary(ctx, days, top)
	if err != nil {
		return err
	}

	overview := newTable(d.out, "Orders", "Revenue", "Average order", "Customers")
	if err := overview.Append([]string{
		strconv.FormatInt(summary.TotalOrders, 10),
		summary.TotalRevenue.StringFixed(2),
		summary.AverageOrderValue.StringFixed(2),
		strconv.FormatInt(summary.UniqueCustomers, 10),
	}); err != nil {
		return err
	}
	if err := overview.Render(); err != nil {
		return err
	}

	services := newTable(d.out, "Service", "Quantity", "Revenue")
	for _, s := range summary.ServiceRevenue {
		if err := services.Append([]string{s.Service, s.Quantity.StringFixed(2), s.Revenue.StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := services.Render(); err != nil {
		return err
	}

	daily := newTable(d.out, "Date", "Orders", "Revenue")
	for _, r := range summary.DailyRevenue {
		if err := daily.Append([]string{r.Date.Format(models.DateLayout), strconv.FormatInt(r.Orders, 10), r.Revenue.StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := daily.Render(); err != nil {
		return err
	}

	customers := newTable(d.out, "Customer", "Orders", "Revenue")
	for _, c := range summary.TopCustomers {
		if err := customers.Append([]string{c.CustomerName, strconv.FormatInt(c.Orders, 10), c.Revenue.StringFixed(2)}); err != nil {
			return err
		}
	}
	return customers.Render()
}

func (d *Desk) hashPassword(_ context.Context, args []string) error {
	var password string
	fs := d.flagSet("hash-password")
	fs.StringVar(&password, "password", "", "operator password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: -password is required", ErrUsage)
	}

	hashed, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(d.out, hashed)
	return nil
}
