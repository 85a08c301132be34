// Command opossumctl is a thin adapter over the catalog and storage
// packages: a stand-in for the source's plugin/CLI entry points, not a
// home for core logic.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"opossumdb/catalog"
	"opossumdb/log"
	"opossumdb/storage"
	"opossumdb/types"
)

var cli struct {
	Log log.Config `embed:"" prefix:"log-"`

	Demo  DemoCmd  `cmd:"" help:"Build a small sample table, compress it, and print the catalog."`
	Print PrintCmd `cmd:"" help:"Print every table currently registered in the catalog."`
}

type DemoCmd struct {
	Table       string `help:"Name to register the sample table under." default:"people"`
	TargetChunk int    `help:"Target chunk size for the sample table." default:"5"`
}

func (d *DemoCmd) Run() error {
	tbl := storage.NewTable(d.TargetChunk)
	if err := tbl.AddColumn("name", "string", true); err != nil {
		return err
	}
	for _, name := range []string{"Bill", "Steve", "Alexander", "Steve", "Hasso", "Bill"} {
		if err := tbl.Append([]types.Variant{types.FromString(name)}); err != nil {
			return err
		}
	}
	if err := tbl.CompressChunk(0); err != nil {
		return err
	}
	if err := catalog.Default().AddTable(d.Table, tbl); err != nil {
		return err
	}
	return catalog.Default().Print(os.Stdout)
}

type PrintCmd struct{}

func (p *PrintCmd) Run() error {
	return catalog.Default().Print(os.Stdout)
}

func main() {
	kctx := kong.Parse(&cli)
	if err := cli.Log.Configure(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
