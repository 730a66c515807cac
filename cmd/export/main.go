// Command export dumps a market partition's channel metrics as CSV on
// stdout, for ad-hoc analysis without running the API server. It always
// reads the embedded dataset snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/prak-gup/SANTOOR/internal/dataset"
	"github.com/prak-gup/SANTOOR/internal/repository/memory"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
)

func main() {
	market := flag.String("market", "", "market code (AP, KA, MH)")
	scr := flag.String("scr", "", "SCR partition; empty exports all partitions of the market")
	list := flag.Bool("list", false, "list markets and SCR partitions, then exit")
	flag.Parse()

	ds, err := dataset.Load()
	if err != nil {
		log.Fatalf("loading embedded dataset: %v", err)
	}
	svc := insights.NewService(memory.NewFromDataset(ds), nil)
	ctx := context.Background()

	if *list {
		markets, err := svc.Markets(ctx)
		if err != nil {
			log.Fatalf("listing markets: %v", err)
		}
		for _, m := range markets {
			fmt.Printf("%s\t%s\t%v\n", m.Code, m.Name, m.SCRs)
		}
		return
	}

	if *market == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := svc.ExportCSV(ctx, os.Stdout, *market, *scr); err != nil {
		log.Fatalf("exporting %s/%s: %v", *market, *scr, err)
	}
}
