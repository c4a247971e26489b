package main

import (
	"github.com/Paintersrp/reap/internal/cli"
	"github.com/Paintersrp/reap/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
