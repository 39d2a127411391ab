package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/sigcell"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Builds layered memo graphs of configurable width and depth, then writes
// sources round-robin and reads the leaves, reporting throughput per shape.

type layersTestConfig struct {
	name        string
	width       int
	totalLayers int
	nSources    int
	iterations  int64
}

func main() {
	log.Print("Starting layered graph benchmark, please wait...")
	defer log.Print("Finished layered graph benchmark")

	cfgs := []layersTestConfig{
		{
			name:        "simple component",
			width:       10,
			totalLayers: 5,
			nSources:    2,
			iterations:  100_000,
		},
		{
			name:        "large web app",
			width:       1000,
			totalLayers: 12,
			nSources:    4,
			iterations:  500,
		},
		{
			name:        "wide dense",
			width:       1000,
			totalLayers: 5,
			nSources:    25,
			iterations:  300,
		},
		{
			name:        "deep",
			width:       5,
			totalLayers: 500,
			nSources:    3,
			iterations:  500,
		},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "nTimes", "test", "time", "updateRate", "recomputes",
	})

	testRepeats := 3
	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		best := time.Hour
		var bestCount int64
		for i := 0; i < testRepeats; i++ {
			counter := new(int64)
			g := makeGraph(cfg, counter)

			start := time.Now()
			runGraph(cfg, g)
			duration := time.Since(start)
			if duration < best {
				best = duration
				bestCount = *counter
			}
		}

		updateRate := float64(bestCount) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best),
			humanize.Comma(int64(updateRate)),
			humanize.Comma(bestCount),
		})
	}
	table.Render()
}

type graph struct {
	rt      *sigcell.Runtime
	sources []sigcell.WriteableSignal[int]
	leaves  []sigcell.ReadonlySignal[int]
}

func makeGraph(cfg layersTestConfig, counter *int64) *graph {
	rt := sigcell.NewRuntime()
	sources := make([]sigcell.WriteableSignal[int], cfg.width)
	for i := range sources {
		sources[i] = sigcell.Signal(rt, i)
	}

	prevRow := make([]sigcell.ReadonlySignal[int], cfg.width)
	for i, s := range sources {
		prevRow[i] = s.Handle()
	}

	for l := 0; l < cfg.totalLayers-1; l++ {
		row := make([]sigcell.ReadonlySignal[int], cfg.width)
		for myDex := range row {
			mySources := make([]sigcell.ReadonlySignal[int], 0, cfg.nSources)
			for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
				mySources = append(mySources, prevRow[(myDex+sourceDex)%len(prevRow)])
			}
			row[myDex] = sigcell.Memo(rt, func() int {
				*counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Value()
				}
				return sum
			})
		}
		prevRow = row
	}

	return &graph{rt: rt, sources: sources, leaves: prevRow}
}

func runGraph(cfg layersTestConfig, g *graph) int {
	for i := 0; i < int(cfg.iterations); i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].SetValue(i + sourceDex)
	}

	sum := 0
	for _, leaf := range g.leaves {
		sum += leaf.UntrackedValue()
	}
	return sum
}
