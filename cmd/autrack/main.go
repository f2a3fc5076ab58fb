// Command autrack is a small CLI over the Autrack API client, mostly
// useful for poking at a backend (or the bundled dev server) by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/kennyp2233/autrack-go/internal/api"
	"github.com/kennyp2233/autrack-go/internal/config"
	"github.com/kennyp2233/autrack-go/internal/forms"
	"github.com/kennyp2233/autrack-go/internal/logger"
	"github.com/kennyp2233/autrack-go/internal/reports"
	"github.com/kennyp2233/autrack-go/internal/session"
	"github.com/kennyp2233/autrack-go/internal/storage"
)

const tokenKey = "authToken"

type app struct {
	client *api.Client
	sess   *session.Session
	store  *storage.Shim
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)
	defer logger.Sync()

	durable, err := storage.OpenSQLite(cfg.StoragePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open local storage: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = durable.Close() }()

	// The CLI always wants the token to survive between runs.
	store := storage.New(storage.NewMemoryBackend(), durable, func() storage.Mode { return storage.Durable })

	ctx := context.Background()
	sess := session.New()
	if token, ok, err := store.Get(ctx, tokenKey); err == nil && ok {
		sess.SetToken(token)
	}

	a := &app{
		client: api.New(cfg.APIBaseURL, sess, &http.Client{Timeout: cfg.RequestTimeout}),
		sess:   sess,
		store:  store,
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: autrack <command> [flags]

commands:
  register      create an account
  login         sign in and store the token
  logout        drop the stored token
  whoami        show the current session
  vehicles      list registered vehicles
  add-vehicle   register a vehicle
  log           log a maintenance record
  history       list maintenance for a vehicle
  report        filtered maintenance report with totals
  stats         backend-computed stats for a vehicle`)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "vehicles":
		return a.vehicles(ctx)
	case "add-vehicle":
		return a.addVehicle(ctx, args)
	case "log":
		return a.logMaintenance(ctx, args)
	case "history":
		return a.history(ctx, args)
	case "report":
		return a.report(ctx, args)
	case "stats":
		return a.stats(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// saveToken persists whatever the session currently holds.
func (a *app) saveToken(ctx context.Context) error {
	if token := a.sess.Token(); token != "" {
		return a.store.Set(ctx, tokenKey, token)
	}
	return a.store.Remove(ctx, tokenKey)
}

func formErrors(errs map[string]string) error {
	for field, msg := range errs {
		return fmt.Errorf("%s: %s", field, msg)
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if errs := forms.Validate(forms.RegisterForm{
		FullName:        *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *password,
	}); errs != nil {
		return formErrors(errs)
	}

	user, err := a.client.Auth.Register(ctx, api.RegisterInput{
		Email:    *email,
		FullName: *name,
		Password: *password,
	})
	if err != nil {
		return err
	}
	if err := a.saveToken(ctx); err != nil {
		return err
	}
	if user != nil {
		fmt.Printf("registered %s (user %d)\n", user.Email, user.ID)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if errs := forms.Validate(forms.LoginForm{Email: *email, Password: *password}); errs != nil {
		return formErrors(errs)
	}

	user, err := a.client.Auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.saveToken(ctx); err != nil {
		return err
	}
	if user != nil {
		fmt.Printf("logged in as %s\n", user.Email)
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.client.Auth.Logout()
	if err := a.store.Remove(ctx, tokenKey); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if a.sess.Token() == "" {
		fmt.Println("not logged in")
		return nil
	}
	if claims, ok := a.sess.Claims(); ok {
		fmt.Printf("session for %s (user %s)", claims.Email, claims.Subject)
		if claims.ExpiresAt != nil {
			fmt.Printf(", token expires %s", claims.ExpiresAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}

	user, err := a.client.Users.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>, member since %s\n", user.FullName, user.Email, user.CreatedAt)
	return nil
}

func (a *app) vehicles(ctx context.Context) error {
	vehicles, err := a.client.Vehicles.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBRAND\tMODEL\tYEAR\tPLATE\tKM\tNEXT SERVICE")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\t%s\n",
			v.ID, v.Brand, v.Model, v.Year, v.Plate, v.Mileage, v.NextMaintenance)
	}
	return w.Flush()
}

func (a *app) addVehicle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-vehicle", flag.ExitOnError)
	brand := fs.String("brand", "", "brand name")
	model := fs.String("model", "", "model name")
	year := fs.Int("year", 0, "model year")
	plate := fs.String("plate", "", "license plate")
	mileage := fs.Int64("mileage", 0, "current mileage")
	fuel := fs.String("fuel", "", "fuel type")
	color := fs.String("color", "", "hex color")
	_ = fs.Parse(args)

	if errs := forms.Validate(forms.VehicleForm{
		Brand:    *brand,
		Model:    *model,
		Year:     *year,
		Plate:    *plate,
		Mileage:  *mileage,
		FuelType: *fuel,
		Color:    *color,
	}); errs != nil {
		return formErrors(errs)
	}

	v, err := a.client.Vehicles.Create(ctx, api.VehicleCreate{
		Brand:    *brand,
		Model:    *model,
		Year:     *year,
		Plate:    *plate,
		Mileage:  *mileage,
		FuelType: *fuel,
		Color:    *color,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered vehicle %d: %s %s (%s)\n", v.ID, v.Brand, v.Model, v.Plate)
	return nil
}

func (a *app) logMaintenance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	vehicle := fs.Int64("vehicle", 0, "vehicle id")
	typ := fs.String("type", "", "service type")
	date := fs.String("date", "", "service date (2006-01-02)")
	timeOfDay := fs.String("time", "", "service time (15:04)")
	mileage := fs.Int64("mileage", 0, "mileage at service")
	cost := fs.Float64("cost", 0, "cost")
	location := fs.String("location", "", "workshop")
	notes := fs.String("notes", "", "notes")
	_ = fs.Parse(args)

	if *vehicle == 0 {
		return fmt.Errorf("-vehicle is required")
	}
	if errs := forms.Validate(forms.MaintenanceForm{
		Type:    *typ,
		Date:    *date,
		Time:    *timeOfDay,
		Mileage: *mileage,
		Cost:    *cost,
	}); errs != nil {
		return formErrors(errs)
	}

	m, err := a.client.Maintenance.Create(ctx, api.MaintenanceCreate{
		VehicleID: *vehicle,
		Type:      *typ,
		Date:      *date,
		Time:      *timeOfDay,
		Mileage:   *mileage,
		Cost:      *cost,
		Location:  *location,
		Notes:     *notes,
		Status:    "completed",
	})
	if err != nil {
		return err
	}
	fmt.Printf("logged maintenance %d: %s on %s\n", m.ID, m.Type, m.Date)
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	vehicle := fs.Int64("vehicle", 0, "vehicle id")
	_ = fs.Parse(args)

	if *vehicle == 0 {
		return fmt.Errorf("-vehicle is required")
	}
	records, err := a.client.Maintenance.ListByVehicle(ctx, *vehicle)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tKM\tCOST\tLOCATION")
	for _, m := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\n", m.ID, m.Date, m.Type, m.Mileage, m.Cost, m.Location)
	}
	return w.Flush()
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	vehicle := fs.Int64("vehicle", 0, "vehicle id (0 = all)")
	typ := fs.String("type", "", "service type")
	from := fs.String("from", "", "start date, inclusive")
	to := fs.String("to", "", "end date, inclusive")
	minKM := fs.Int64("min-km", 0, "minimum mileage")
	maxKM := fs.Int64("max-km", 0, "maximum mileage")
	_ = fs.Parse(args)

	records, err := a.client.Maintenance.List(ctx)
	if err != nil {
		return err
	}

	filtered, summary := reports.Report(records, reports.Filter{
		VehicleID:  *vehicle,
		Type:       *typ,
		DateFrom:   *from,
		DateTo:     *to,
		MileageMin: *minKM,
		MileageMax: *maxKM,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tKM\tCOST")
	for _, m := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", m.Date, m.Type, m.Mileage, m.Cost)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nrecords: %d  total: %.2f  average: %.2f\n", summary.RecordCount, summary.TotalCost, summary.AverageCost)
	fmt.Printf("most common: %s  highest cost: %s (%.2f)\n", summary.MostCommonService, summary.HighestCostService, summary.HighestCost)
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	vehicle := fs.Int64("vehicle", 0, "vehicle id")
	_ = fs.Parse(args)

	if *vehicle == 0 {
		return fmt.Errorf("-vehicle is required")
	}
	stats, err := a.client.Maintenance.Stats(ctx, *vehicle)
	if err != nil {
		return err
	}

	fmt.Printf("records: %d  total cost: %.2f\n", stats.RecordCount, stats.TotalCost)
	if stats.LastMaintenanceDate != "" {
		fmt.Printf("last service: %s  next estimate: %s\n", stats.LastMaintenanceDate, stats.NextMaintenanceEstimate)
	}
	return nil
}
