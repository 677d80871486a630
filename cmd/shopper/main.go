// Command shopper is a terminal storefront: it browses the static catalog
// and drives the cart, wishlist and checkout against a running API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/intellibazar/intellibazar/internal/storefront"
)

const usage = `usage: shopper [flags] <command> [args]

commands:
  register <name> <email> <password>
  login <email> <password>
  logout
  catalog [category] [-q text] [-sort price-asc|price-desc|rating-desc|name-asc]
  cart [add <product> | rm <id> | inc <id> | dec <id> | clear]
  wishlist [add <product> | rm <product> | move <product> | move-all | clear]
  checkout [-buy-now <product>]
  orders
`

func main() {
	home, _ := os.UserHomeDir()
	api := flag.String("api", envOr("BAZAR_API", "http://localhost:8080"), "API base URL")
	sessionPath := flag.String("session", filepath.Join(home, ".intellibazar", "session.json"), "session file")
	verbose := flag.Bool("v", false, "log failed requests to stderr")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage); flag.PrintDefaults() }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	catalog, err := storefront.LoadCatalog()
	if err != nil {
		log.Fatal(err)
	}
	cli := &cli{
		shop:    storefront.NewShop(storefront.NewClient(*api, nil), storefront.NewFileStore(*sessionPath), log.New(logOut, "[shopper] ", log.LstdFlags)),
		catalog: catalog,
		out:     os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := cli.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type cli struct {
	shop    *storefront.Shop
	catalog *storefront.Catalog
	out     io.Writer
}

var errUsage = errors.New("invalid arguments, run shopper -h")

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 3 {
			return errUsage
		}
		u, err := c.shop.Register(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Welcome, %s\n", u.Name)
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		u, err := c.shop.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Signed in as %s (%d items in cart)\n", u.Email, c.shop.Cart.Count())
	case "logout":
		c.shop.Logout()
		fmt.Fprintln(c.out, "Signed out")
	case "catalog":
		return c.browse(args)
	case "cart":
		return c.cart(ctx, args)
	case "wishlist":
		return c.wishlist(ctx, args)
	case "checkout":
		return c.checkout(ctx, args)
	case "orders":
		orders, ok := c.shop.Checkout.Orders(ctx)
		if !ok {
			return errors.New(c.shop.Checkout.Err())
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSOURCE\tTOTAL\tPLACED")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.ID, o.Source, o.Total, o.CreatedAt.Local().Format(time.DateTime))
		}
		return w.Flush()
	default:
		return errUsage
	}
	return nil
}

func (c *cli) browse(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	query := fs.String("q", "", "search text")
	by := fs.String("sort", "", "sort order")
	category := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		category, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if category == "" && *query == "" {
		for _, cat := range c.catalog.Categories() {
			fmt.Fprintf(c.out, "%-14s %s\n", cat, c.catalog.Title(cat))
		}
		return nil
	}
	products := c.catalog.All()
	if category != "" {
		products = c.catalog.Page(category)
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tPRICE\tRATING\tREVIEWS")
	for _, p := range storefront.Sort(storefront.Search(products, *query), *by) {
		r := 0.0
		if p.Rating != nil {
			r = *p.Rating
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\n", p.Name, p.Price, r, p.Reviews)
	}
	return w.Flush()
}

func (c *cli) lookup(name string) (storefront.Product, error) {
	for _, p := range c.catalog.All() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return storefront.Product{}, fmt.Errorf("no product named %q in the catalog", name)
}

func (c *cli) cart(ctx context.Context, args []string) error {
	m := c.shop.Cart
	ok := true
	if len(args) > 0 {
		arg := strings.Join(args[1:], " ")
		switch args[0] {
		case "add":
			p, err := c.lookup(arg)
			if err != nil {
				return err
			}
			ok = c.shop.AddToCart(ctx, p)
		case "rm":
			ok = m.Fetch(ctx) && m.Remove(ctx, arg)
		case "inc":
			ok = m.Fetch(ctx) && m.Increment(ctx, arg)
		case "dec":
			ok = m.Fetch(ctx) && m.Decrement(ctx, arg)
		case "clear":
			ok = m.Clear(ctx)
		default:
			return errUsage
		}
	} else {
		ok = m.Fetch(ctx)
	}
	if !ok {
		if msg := m.Err(); msg != "" {
			return errors.New(msg)
		}
		return errors.New("nothing changed")
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tPRICE\tQTY")
	for _, it := range m.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", it.ID, it.ProductName, it.Price(), it.Quantity)
	}
	fmt.Fprintf(w, "\t%d items\t%s\t\n", m.Count(), m.Total())
	return w.Flush()
}

func (c *cli) wishlist(ctx context.Context, args []string) error {
	m := c.shop.Wishlist
	ok := true
	if len(args) > 0 {
		arg := strings.Join(args[1:], " ")
		switch args[0] {
		case "add":
			p, err := c.lookup(arg)
			if err != nil {
				return err
			}
			ok = c.shop.AddToWishlist(ctx, p)
		case "rm":
			ok = m.Remove(ctx, arg)
		case "move":
			p, err := c.lookup(arg)
			if err != nil {
				return err
			}
			ok = c.shop.MoveToCart(ctx, p)
		case "move-all":
			res, moved := c.shop.MoveAllToCart(ctx)
			if res.Message != "" {
				fmt.Fprintln(c.out, res.Message)
			}
			ok = moved
		case "clear":
			ok = m.Clear(ctx)
		default:
			return errUsage
		}
	} else {
		ok = m.Fetch(ctx)
	}
	if !ok {
		return errors.New(m.Err())
	}

	for _, it := range m.Items() {
		fmt.Fprintf(c.out, "%s  %s\n", it.ProductName, it.ProductPrice)
	}
	return nil
}

func (c *cli) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	buyNow := fs.String("buy-now", "", "order a single catalog product instead of the cart")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var single *storefront.Product
	if *buyNow != "" {
		p, err := c.lookup(*buyNow)
		if err != nil {
			return err
		}
		single = &p
	} else {
		c.shop.Cart.Fetch(ctx)
	}

	sum := c.shop.Checkout.Summary(single)
	for _, l := range sum.Lines {
		fmt.Fprintf(c.out, "%-32s %3d x %-10s %s\n", l.Name, l.Quantity, l.Price, l.Subtotal)
	}
	fmt.Fprintf(c.out, "Total: %s\n", sum.Total)

	placed, ok := c.shop.Checkout.Confirm(ctx, single)
	if !ok {
		return errors.New(c.shop.Checkout.Err())
	}
	fmt.Fprintf(c.out, "%s (order %s)\n", storefront.MsgOrderPlaced, placed.ID)
	return nil
}
