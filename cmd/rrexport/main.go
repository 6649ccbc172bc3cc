package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/asnt/traindurance/activity"
)

func main() {
	out := flag.String("out", "", "Output file (default stdout)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-out rr.txt] input.{fit,csv}\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "Extracts RR intervals in seconds, one value per line.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	rr, err := activity.LoadRR(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "rrexport failed: %v\n", err)
		os.Exit(1)
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rrexport failed: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}

	w := bufio.NewWriter(dst)
	for _, interval := range rr {
		fmt.Fprintln(w, strconv.FormatFloat(interval, 'f', -1, 64))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "rrexport failed: %v\n", err)
		os.Exit(1)
	}
}
