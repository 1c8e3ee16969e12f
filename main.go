package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/lehigh-university-libraries/sku-images/cmd"
)

const version = "0.1.0"

func main() {
	// version flag, completions and man pages come from fang
	opts := []fang.Option{
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	}

	if err := fang.Execute(context.Background(), cmd.NewRootCmd(), opts...); err != nil {
		os.Exit(1)
	}
}
