// Command avlstore-cli operates a Badger-backed avltree.Tree[string, string]
// from the shell: put, get, delete, range, and dump, mirroring the shape of
// gloudx-ues-lite's own cmd/ds datastore CLI but against this module's public
// tree API instead of a raw key-value store. When --metrics-addr is set, it
// also serves a /metrics endpoint via promhttp, the same pattern
// gloudx-ues-lite's own API server mounts alongside its other routes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/qntx/avlstore/avltree"
	"github.com/qntx/avlstore/bound"
	"github.com/qntx/avlstore/cmp"
	"github.com/qntx/avlstore/metrics"
	"github.com/qntx/avlstore/store/badgerstore"
)

const (
	defaultDataDir = "./.avlstore-data"
	appName        = "avlstore-cli"
	appVersion     = "1.0.0"
)

func main() {
	app := &cli.App{
		Name:    appName,
		Usage:   "inspect and mutate an avlstore tree on disk",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Value:   defaultDataDir,
				Usage:   "directory holding the Badger database",
				EnvVars: []string{"AVLSTORE_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "if set, serve Prometheus metrics on this address (e.g. :9100) for the duration of the command",
				EnvVars: []string{"AVLSTORE_METRICS_ADDR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "put",
				Aliases:   []string{"p"},
				Usage:     "insert or update a key",
				Action:    put,
				ArgsUsage: "<key> <value>",
			},
			{
				Name:      "get",
				Aliases:   []string{"g"},
				Usage:     "look up a key",
				Action:    get,
				ArgsUsage: "<key>",
			},
			{
				Name:      "delete",
				Aliases:   []string{"del"},
				Usage:     "remove a key",
				Action:    del,
				ArgsUsage: "<key>",
			},
			{
				Name:  "range",
				Usage: "list keys in [start, end)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Usage: "inclusive lower bound; omit for unbounded"},
					&cli.StringFlag{Name: "end", Usage: "exclusive upper bound; omit for unbounded"},
					&cli.BoolFlag{Name: "back", Usage: "walk in descending key order"},
				},
				Action: rangeKeys,
			},
			{
				Name:   "dump",
				Usage:  "render the tree level by level",
				Action: dump,
			},
			{
				Name:   "stats",
				Usage:  "show tree size and health",
				Action: stats,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openTree(c *cli.Context) (*avltree.Tree[string, string], func(), error) {
	s, err := badgerstore.Open[string, string](c.String("data"), badgerstore.JSONCodec[string](), badgerstore.JSONCodec[string]())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var opts []avltree.Option[string, string]

	stopMetrics := func() {}

	if addr := c.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		collector := metrics.NewCollector(reg, appName)
		opts = append(opts, avltree.WithMetrics[string, string](collector))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		server := &http.Server{Addr: addr, Handler: mux}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintln(os.Stderr, "metrics server:", err)
			}
		}()

		stopMetrics = func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}
	}

	tree := avltree.New[string, string](cmp.Compare[string], s, opts...)

	return tree, func() {
		_ = s.Close()
		stopMetrics()
	}, nil
}

func put(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("put requires a key and a value")
	}

	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	key, value := c.Args().Get(0), c.Args().Get(1)

	if old, existed := tree.Insert(key, value); existed {
		fmt.Printf("updated %q (was %q)\n", key, old)
	} else {
		fmt.Printf("inserted %q\n", key)
	}

	return nil
}

func get(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("get requires a key")
	}

	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	value, ok := tree.Get(c.Args().Get(0))
	if !ok {
		return fmt.Errorf("key %q not found", c.Args().Get(0))
	}

	fmt.Println(value)

	return nil
}

func del(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("delete requires a key")
	}

	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, ok := tree.Remove(c.Args().Get(0)); !ok {
		return fmt.Errorf("key %q not found", c.Args().Get(0))
	}

	fmt.Printf("removed %q\n", c.Args().Get(0))

	return nil
}

func rangeBound(s string) bound.Bound[string] {
	if s == "" {
		return bound.Unbound[string]()
	}

	return bound.Inc(s)
}

func rangeKeys(c *cli.Context) error {
	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	start, end := rangeBound(c.String("start")), rangeBound(c.String("end"))
	if end.Kind == bound.Included {
		end = bound.Exc(end.Key)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "key", "value"})

	n := 0

	seq := tree.Range(start, end).Seq()
	if c.Bool("back") {
		seq = tree.RangeBack(start, end).Seq()
	}

	for k, v := range seq {
		n++
		t.AppendRow(table.Row{n, k, v})
	}

	if n == 0 {
		fmt.Println("no keys in range")
		return nil
	}

	t.Render()

	return nil
}

func dump(c *cli.Context) error {
	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Println(tree.Dump())

	return nil
}

func stats(c *cli.Context) error {
	tree, closeFn, err := openTree(c)
	if err != nil {
		return err
	}
	defer closeFn()

	issues := tree.Validate(avltree.ValidateLog)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("avlstore stats")
	t.AppendRow(table.Row{"path", c.String("data")})
	t.AppendRow(table.Row{"len", tree.Len()})
	t.AppendRow(table.Row{"issues", len(issues)})
	t.Render()

	return nil
}
