package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleASCII),
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
	)
}

// printRequest writes the request line, a table of headers and query
// parameters, the JWT claims when verify can decode the bearer token, and
// the body.
func printRequest(w io.Writer, req *rpc.WireRequest, verify func(string) ([]string, error)) error {
	if _, err := fmt.Fprintf(w, "%s %s\n\n", req.Method, req.URL); err != nil {
		return err
	}

	var rows [][]string
	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range req.Header[name] {
			rows = append(rows, []string{"header", name, v})
		}
	}
	for _, kv := range strings.Split(req.URL.RawQuery, "&") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		rows = append(rows, []string{"query", k, v})
	}
	if auth := req.Header.Get("Authorization"); auth != "" && verify != nil {
		claims, err := verify(auth)
		if err != nil {
			return errors.Wrap(err, "decoding bearer token")
		}
		for _, c := range claims {
			k, v, _ := strings.Cut(c, "=")
			rows = append(rows, []string{"claim", k, v})
		}
	}
	for _, warn := range req.Warnings {
		rows = append(rows, []string{"dropped", warn.Key, warn.Reason})
	}

	if len(rows) > 0 {
		table := newTable(w)
		table.Header("Part", "Name", "Value")
		if err := table.Bulk(rows); err != nil {
			return errors.Wrap(err, "rendering table")
		}
		if err := table.Render(); err != nil {
			return errors.Wrap(err, "rendering table")
		}
	}

	if req.Body != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", req.Body); err != nil {
			return err
		}
	}
	return nil
}
