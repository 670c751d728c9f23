// Command fecsim is a live dashboard over a running Orchestrator: a
// status line over a scrolling event list. It contains no codec logic of
// its own; it is a thin harness driving the pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/spf13/pflag"

	"github.com/satcomm/fectel"
	"github.com/satcomm/fectel/internal/channel"
	"github.com/satcomm/fectel/internal/config"
)

type dashboard struct {
	orch      *fectel.Orchestrator
	events    []string
	cycles    int
	recovered int
	failed    int
}

func (d *dashboard) update(g *gocui.Gui) error {
	s, err := g.View("status")
	if err != nil {
		return nil
	}
	s.Clear()
	stats := d.orch.Stats()
	fmt.Fprintf(s, " CYCLES: %04d  RECOVERED: %04d  FAILED: %04d  LAST UPDATE: %s\n",
		d.cycles, d.recovered, d.failed, time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s, " RS corrected=%d failed=%d  VITERBI corrected=%d failed=%d\n",
		stats.ReedSolomon.Corrected, stats.ReedSolomon.Failed,
		stats.Viterbi.Corrected, stats.Viterbi.Failed)

	l, err := g.View("list")
	if err != nil {
		return nil
	}
	l.Clear()
	fmt.Fprintln(l, " SAT  ENCODING  STATUS          STRATEGY   CONFIDENCE")
	fmt.Fprintln(l, " =====================================================")
	for _, e := range d.events {
		fmt.Fprintln(l, e)
	}
	return nil
}

func (d *dashboard) runCycle(streamSeed *rand.Rand) {
	rec := fectel.TelemetryRecord{
		SatelliteID: uint16(streamSeed.Intn(32)),
		Timestamp:   1700000000 + int64(d.cycles),
		Latitude:    streamSeed.Float64()*180 - 90,
		Longitude:   streamSeed.Float64()*360 - 180,
		Altitude:    400,
		Velocity:    27600,
		Visibility:  fectel.VisibilityDaylight,
	}
	encodings := []fectel.Encoding{fectel.EncodingHamming, fectel.EncodingBCH, fectel.EncodingViterbi, fectel.EncodingRS}
	enc := encodings[streamSeed.Intn(len(encodings))]
	kinds := []channel.Kind{channel.Kind(streamSeed.Intn(5))}
	result := d.orch.RunOnce(context.Background(), rec, enc, kinds, 1.0, "fecsim")

	d.cycles++
	status := "FAILED"
	strat := "-"
	confidence := 0.0
	if result.Err == nil {
		d.recovered++
		status = result.Validation.Status.String()
		strat = result.Strategy.Primary.String()
		confidence = result.Strategy.Confidence
	} else {
		d.failed++
	}
	line := fmt.Sprintf(" %3d  %-8s  %-14s  %-9s  %.2f", rec.SatelliteID, enc, status, strat, confidence)
	d.events = append(d.events, line)
	if len(d.events) > 20 {
		d.events = d.events[len(d.events)-20:]
	}
}

func main() {
	seed := pflag.Int64("seed", 1, "channel injector seed")
	pflag.Parse()

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	defer g.Close()

	d := &dashboard{orch: fectel.NewOrchestrator(config.Defaults(), *seed, nil)}

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	streamRand := rand.New(rand.NewSource(*seed))
	go func() {
		for range time.Tick(time.Second) {
			d.runCycle(streamRand)
			g.Update(d.update)
		}
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

func layout(g *gocui.Gui) error {
	const maxX = 80
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 3)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = " STATUS "

	v, err = g.SetView("list", 0, 4, maxX-2, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = " EVENTS "
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
