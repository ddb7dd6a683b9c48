// Command thermworld-ui is the ebiten-based interactive viewer: a heat-map
// renderer, slice view, paint tool, and HUD over a running simserver.Server.
// It lives in its own module so the headless core never depends on ebiten.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"thermworld/internal/growth"
	"thermworld/internal/material"
	"thermworld/internal/simserver"
	"thermworld/internal/voxel"
	"thermworld/ui/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	stress := flag.Bool("stress", false, "drive the spiral growth controller instead of a static bootstrap chunk")
	flag.Parse()

	w := voxel.NewWorld()
	server := simserver.New(w, float32(cfg.DT), cfg.SleepMs)

	var controller *growth.StressGrowthController
	if *stress {
		controller = growth.New(server, cfg.Seed, os.Stdout)
	} else {
		bootstrap(w)
	}

	server.Start()
	if controller != nil {
		stopCh := make(chan struct{})
		go controller.Run(stopCh)
	}

	game := app.New(server, controller, cfg.Scale, cfg.Tile)

	ebiten.SetWindowTitle("thermworld")
	ebiten.SetTPS(cfg.TPS)
	w0, h0 := game.Layout(0, 0)
	ebiten.SetWindowSize(w0, h0)

	err := ebiten.RunGame(game)
	server.Stop()
	server.Join()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// bootstrap fills one section of chunk (0,0) so the viewer has something to
// show before any stress growth or paint input arrives.
func bootstrap(w *voxel.World) {
	mat := w.Materials.Add(material.Material{
		HeatCapacity:        500,
		ThermalConductivity: 50,
		DefaultMass:         1000,
		MolarMass:           0.03,
	})
	c := w.Ensure(0, 0)
	c.FillSection(0, mat, 800, w.Materials)
}
