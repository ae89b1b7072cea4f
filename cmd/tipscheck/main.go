package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/tips"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	var (
		file    = flag.String("file", config.DefaultTipsFile, "Path to the design tips JSON document")
		charset = flag.String("charset", config.DefaultTipsCharset, "Charset of the tips file")
	)
	flag.Parse()
	log.Printf("Design tips checker (version: %s)", config.AppVersion)

	if err := check(*file, *charset); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", *file, err)
		os.Exit(1)
	}
}

// check loads the file the same way the server does and prints a summary
func check(file, charset string) error {
	doc, err := tips.Load(file, charset)
	if err != nil {
		return err
	}
	kind, entries := tips.Describe(doc)
	fmt.Printf("OK %s (%s, %d entries)\n", file, kind, entries)
	return nil
}
