package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/napalu/argbind"
	"github.com/napalu/argbind/types"
)

type Query struct {
	Database string        `arg:"short:d;required:true;env:DEMO_DATABASE;desc:Database to query"`
	Since    time.Time     `arg:"short:s;converter:relative;desc:Only return points written after this time or duration ago"`
	Window   time.Duration `arg:"short:w;default:1m;category:Aggregation;desc:Width of the aggregation window"`
	Fields   []string      `arg:"short:f;category:Aggregation;desc:Fields to return, may be repeated"`
	Format   string        `arg:"default:table;desc:Output format (table, csv or json)"`
	Filter   string        `arg:"pos:0"`
}

func (Query) CommandInfo() types.CommandInfo {
	return types.CommandInfo{
		Name:        "query",
		Description: "run a query against a database",
		OpeningText: "Usage: argbind-demo query [options] [filter]",
	}
}

type Write struct {
	Database  string     `arg:"short:d;required:true;env:DEMO_DATABASE;desc:Database to write to"`
	Precision types.Char `arg:"short:p;default:s;desc:Timestamp precision (s, m or u)"`
	Points    []string   `arg:"pos:0;min:1;max:*;required:true;exit:2"`
}

func (Write) CommandInfo() types.CommandInfo {
	return types.CommandInfo{
		Name:        "write",
		Description: "write points in line protocol",
		OpeningText: "Usage: argbind-demo write [options] point...",
	}
}

type Options struct {
	Host    string `arg:"short:H;default:localhost;env:DEMO_HOST;desc:Server host name"`
	Port    uint16 `arg:"short:P;default:8086;env:DEMO_PORT;desc:Server port"`
	Verbose bool   `arg:"short:v"`
	Query   *Query
	Write   *Write
}

func (Options) CommandInfo() types.CommandInfo {
	return types.CommandInfo{
		OpeningText: "Usage: argbind-demo [options] <command>",
		ClosingText: "Run 'argbind-demo <command> --help' for the options of a command.",
	}
}

// parseRelative accepts a duration, meaning that long ago, or a date
func parseRelative(s string) (time.Time, error) {
	if d, err := time.ParseDuration(strings.TrimPrefix(s, "-")); err == nil {
		return time.Now().Add(-d), nil
	}
	return dateparse.ParseLocal(s)
}

func main() {
	parser, err := argbind.NewParserWith(
		argbind.WithNamedConverter("relative", argbind.NewConverter(parseRelative, nil)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := &Options{}
	res := parser.BindOrExit(opts, os.Args[1:])

	switch cmd := res.Value.(type) {
	case *Query:
		switch cmd.Format {
		case "table", "csv", "json":
		default:
			fmt.Fprintf(os.Stderr, "unknown format %q\n", cmd.Format)
			os.Exit(2)
		}
		fmt.Printf("query %s@%s:%d window=%s fields=%v format=%s filter=%q\n",
			cmd.Database, opts.Host, opts.Port, cmd.Window, cmd.Fields, cmd.Format, cmd.Filter)
		if !cmd.Since.IsZero() {
			fmt.Printf("  since %s\n", cmd.Since.Format(time.RFC3339))
		}
	case *Write:
		for _, point := range cmd.Points {
			fmt.Printf("write %s@%s:%d precision=%s %s\n", cmd.Database, opts.Host, opts.Port, cmd.Precision, point)
		}
	default:
		help, _ := parser.Help(res.Type)
		fmt.Fprintln(os.Stderr, help)
		os.Exit(2)
	}
}
