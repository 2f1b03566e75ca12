// Command bookings browses and manages car rental bookings through the admin API.
//
//	bookings list [flags]
//	bookings update-status --ids a,b --to paid [flags]
//	bookings delete --ids a,b [flags]
//
// Every flag can also be set as BOOKINGS_<FLAG> in the environment, e.g. BOOKINGS_PASSWORD.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const usage = `usage: bookings <command> [flags]

commands:
  list            print bookings (table on desktop, cards on mobile)
  update-status   set the status of the given bookings
  delete          delete the given bookings
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)

	command := os.Args[1]
	fs := newFlagSet(command)
	switch command {
	case "list":
	case "update-status":
		fs.StringSlice("ids", nil, "booking ids to update")
		fs.String("to", "", "new booking status")
	case "delete":
		fs.StringSlice("ids", nil, "booking ids to delete")
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	v := viper.New()
	v.SetEnvPrefix("BOOKINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}

	opts, err := loadOptions(v)
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if level, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	app, err := newApp(ctx, opts, log, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	switch command {
	case "list":
		err = app.list(ctx)
	case "update-status":
		err = app.updateStatus(ctx, v.GetStringSlice("ids"), v.GetString("to"))
	case "delete":
		err = app.delete(ctx, v.GetStringSlice("ids"))
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func newFlagSet(command string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	fs.String("api", "http://localhost:4005/api/v1", "API base URL")
	fs.String("email", "", "login email")
	fs.String("password", "", "login password")
	fs.String("device", "desktop", "device class: desktop or mobile")
	fs.Int("page", 0, "page to show on desktop (0-based)")
	fs.Int("page-size", 30, "desktop page size")
	fs.Int("mobile-page-size", 10, "mobile page size")
	fs.Int("scroll-offset", 40, "distance from the bottom that loads the next mobile page")
	fs.StringSlice("company", nil, "supplier ids (default: every supplier visible to you)")
	fs.StringSlice("status", nil, "booking statuses (default: all)")
	fs.String("keyword", "", "free text search")
	fs.String("car", "", "only bookings of this car")
	fs.String("user", "", "only bookings of this driver")
	fs.Bool("hide-dates", false, "hide the from/to columns")
	fs.Bool("hide-car", false, "hide the car column")
	fs.Bool("hide-company", false, "hide the supplier column")
	fs.String("cdn-users", "http://localhost:4004/cdn/bookcars/users", "base URL of user avatars")
	fs.String("currency", "$", "currency shown after prices")
	fs.Duration("timeout", defaultTimeout, "overall command timeout")
	fs.String("log-level", "warn", "log level")
	return fs
}
