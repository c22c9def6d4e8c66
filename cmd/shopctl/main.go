// Command shopctl drives the storefront API from a terminal.
//
//	shopctl list -sort price -order desc
//	shopctl search london
//	shopctl order -name "Ada Lovelace" -phone 0123456 1 3 3
//	shopctl set-spaces 4 10
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/client"
)

func main() {
	base := flag.String("api", envOr("SHOP_API", "http://localhost:8080"), "storefront base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*base, nil)
	cmd, args := flag.Arg(0), flag.Args()[1:]

	var err error
	switch cmd {
	case "list":
		err = list(ctx, api, args)
	case "search":
		err = search(ctx, api, args)
	case "order":
		err = order(ctx, api, args)
	case "set-spaces":
		err = setSpaces(ctx, api, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Unavailable) > 0 {
			logrus.WithField("lesson_ids", apiErr.Unavailable).Error("sold out")
		}
		logrus.WithError(err).Fatal(cmd)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: shopctl [-api URL] list|search|order|set-spaces ...\n")
	flag.PrintDefaults()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func list(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	sortBy := fs.String("sort", "", "id, subject, location, price or spaces")
	order := fs.String("order", "asc", "asc or desc")
	_ = fs.Parse(args)

	lessons, err := api.ListLessons(ctx, *sortBy, *order)
	if err != nil {
		return err
	}
	return printJSON(lessons)
}

func search(ctx context.Context, api *client.Client, args []string) error {
	lessons, err := api.SearchLessons(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(lessons)
}

// order loads the catalog into a cart, adds every lesson id given and
// submits, so seat checks happen locally before the server sees the order.
func order(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	name := fs.String("name", "", "customer name")
	phone := fs.String("phone", "", "customer phone")
	_ = fs.Parse(args)

	cart := client.NewCart(api)
	if err := cart.Refresh(ctx); err != nil {
		return err
	}
	for _, a := range fs.Args() {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return fmt.Errorf("lesson id %q: %w", a, err)
		}
		if err := cart.Add(id); err != nil {
			return fmt.Errorf("adding lesson %d: %w", id, err)
		}
	}
	placed, err := cart.Submit(ctx, *name, *phone)
	if placed != nil {
		if perr := printJSON(placed); perr != nil {
			return perr
		}
	}
	return err
}

func setSpaces(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set-spaces LESSON_ID SPACES")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("lesson id: %w", err)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("spaces: %w", err)
	}
	lesson, err := api.UpdateSpaces(ctx, id, n)
	if err != nil {
		return err
	}
	return printJSON(lesson)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
