package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ordersync/internal/probe"
)

func main() {
	if err := probe.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
