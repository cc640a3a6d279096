package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Thanush-41/AgriXchange/bidding-client/internal/catalog"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/handshake"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/join"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/realtime"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/room"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/session"
	"github.com/Thanush-41/AgriXchange/shared/config"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

const usage = `usage: agrixchange <command> [flags]

commands:
  login -phone <number> [-role trader|farmer|user]
  logout
  whoami
  listings [-q query] [-category c] [-sort ending-soon|highest-bid|lowest-bid|most-bids]
  products [-q query] [-category c] [-min n] [-max n] [-sort latest|price-asc|price-desc|popular]
  join <listing-id>
`

func main() {
	config.LoadDotEnv(".env")
	cfg := loadConfig()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer app.manager.Close()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// Config holds application configuration
type Config struct {
	RoomServerURL    string
	APIBaseURL       string
	SessionFile      string
	HandshakeTimeout time.Duration
	LogLevel         string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		RoomServerURL:    config.GetEnv("ROOM_SERVER_URL", "ws://localhost:8081/ws"),
		APIBaseURL:       config.GetEnv("API_BASE_URL", "http://localhost:8080"),
		SessionFile:      config.GetEnv("SESSION_FILE", ""),
		HandshakeTimeout: config.GetEnvDuration("HANDSHAKE_TIMEOUT", handshake.DefaultTimeout),
		LogLevel:         config.GetEnv("LOG_LEVEL", "warn"),
	}
}

type app struct {
	out     io.Writer
	cfg     *Config
	store   session.Store
	catalog *catalog.Client
	manager *realtime.Manager
}

func newApp(cfg *Config, out io.Writer) (*app, error) {
	path := cfg.SessionFile
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &app{
		out:     out,
		cfg:     cfg,
		store:   session.NewFileStore(path),
		catalog: catalog.NewClient(cfg.APIBaseURL, nil),
		manager: realtime.NewManager(cfg.RoomServerURL, nil),
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		return a.whoami()
	case "listings":
		return a.listings(ctx, args)
	case "products", "shop":
		return a.products(ctx, args)
	case "join":
		return a.join(ctx, args)
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	phone := fs.String("phone", "", "phone number")
	role := fs.String("role", string(models.RoleTrader), "trader, farmer or user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *phone == "" {
		return errors.New("login: -phone is required")
	}
	if !models.Role(*role).Valid() {
		return fmt.Errorf("login: unknown role %q", *role)
	}

	id, err := a.catalog.Login(ctx, *phone, models.Role(*role))
	if err != nil {
		return err
	}
	if err := a.store.Save(id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", id.User.Name, id.User.Role)
	return nil
}

func (a *app) whoami() error {
	id, err := a.store.Load()
	if err != nil {
		return err
	}
	if id.User == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s) %s\n", id.User.Name, id.User.Role, id.User.Phone)
	return nil
}

func (a *app) listings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("listings", flag.ContinueOnError)
	var f catalog.ListingFilter
	fs.StringVar(&f.Query, "q", "", "search name and description")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.StringVar(&f.Sort, "sort", catalog.SortEndingSoon, "sort order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, _ := a.store.Load()
	listings := f.Apply(a.catalog.ActiveListings(ctx, id.Token))
	now := time.Now()

	stats := catalog.Summarize(listings)
	fmt.Fprintf(a.out, "%d active auctions, %d bidders, %d bids, highest ₹%.2f\n\n",
		stats.ActiveAuctions, stats.Bidders, stats.TotalBids, stats.HighestBid)
	if len(listings) == 0 {
		fmt.Fprintln(a.out, "No active auctions")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tCURRENT BID\tBIDS\tBIDDERS\tTIME LEFT")
	for _, l := range listings {
		left := catalog.TimeLeft(l, now)
		if catalog.EndingSoon(l, now) {
			left += " (ending soon)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%g %s\t₹%.2f\t%d\t%d\t%s\n",
			l.ID, l.Name, l.Quantity, l.Unit, l.CurrentBid, l.BidCount, l.Participants, left)
	}
	return tw.Flush()
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	var f catalog.Filter
	fs.StringVar(&f.Query, "q", "", "search name and description")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.Float64Var(&f.MinPrice, "min", 0, "minimum price")
	fs.Float64Var(&f.MaxPrice, "max", 0, "maximum price, 0 for none")
	fs.StringVar(&f.Sort, "sort", catalog.SortLatest, "sort order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products := f.Apply(a.catalog.RetailProducts(ctx))
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tMIN ORDER")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t₹%.2f/%s\t%g\n", p.ID, p.Name, p.Category, p.Price, p.Unit, p.MinOrderQuantity)
	}
	return tw.Flush()
}

func (a *app) join(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("join: expected a listing id")
	}

	id, _ := a.store.Load()
	var listing *models.Listing
	for _, l := range a.catalog.ActiveListings(ctx, id.Token) {
		if l.ID == args[0] {
			listing = &l
			break
		}
	}
	if listing == nil {
		// Unknown listings still go through the join action so its notices apply
		listing = &models.Listing{Product: models.Product{ID: args[0]}}
	}

	nav := &terminalNavigator{out: a.out}
	svc := join.NewService(a.store, a.manager, nav, terminalNotifier{out: a.out}, a.cfg.HandshakeTimeout)

	outcome := svc.JoinBidding(ctx, *listing)
	if outcome.Path == "" {
		return nil
	}
	return a.watchRoom(ctx, id.Token, outcome.Result)
}

// watchRoom renders the joined room from the connection the handshake used
func (a *app) watchRoom(ctx context.Context, token string, res handshake.Result) error {
	conn, err := a.manager.Current(token)
	if err != nil {
		return err
	}

	r := res.Room
	r.ID = res.RoomID
	view := room.NewView(r)
	view.Render(a.out, time.Now())

	err = view.Watch(ctx, conn.Events(), func(room.Snapshot) {
		fmt.Fprintln(a.out)
		view.Render(a.out, time.Now())
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type terminalNavigator struct {
	out io.Writer
}

func (n *terminalNavigator) Navigate(path string) {
	fmt.Fprintf(n.out, "→ %s\n", path)
}

type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Notify(message string) {
	fmt.Fprintln(n.out, message)
}
