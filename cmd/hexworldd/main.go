// Command hexworldd is a small headless demo binary: it drives an
// engine.Engine with a scripted avatar path and serves the inspector's
// debug websocket feed, standing in for the renderer/CLI glue the
// teacher's main.go provides for its own game server.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hexworld/engine"
	"hexworld/inspector"
)

// scriptedAvatar walks a slow circle around the renderer-space origin,
// wide enough to eventually cross the floating-origin rebase threshold
// and visit several chunks, without needing real input.
type scriptedAvatar struct {
	start   time.Time
	radius  float64
	periodS float64
}

func (a *scriptedAvatar) Position() (float64, float64) {
	t := time.Since(a.start).Seconds()
	theta := 2 * math.Pi * t / a.periodS
	return a.radius * math.Cos(theta), a.radius * math.Sin(theta)
}

func main() {
	addr := flag.String("addr", ":8080", "inspector HTTP/websocket address")
	radius := flag.Float64("radius", 1200, "scripted avatar orbit radius")
	periodS := flag.Float64("period", 120, "scripted avatar orbit period in seconds")
	flag.Parse()

	eng, err := engine.New(nil)
	if err != nil {
		log.Fatalf("engine.New: %v", err)
	}
	log.Printf("engine constructed: chunk radius %d, hex size %.3f", eng.ChunkRadius(), eng.HexSize())

	hub := inspector.NewHub()
	http.Handle("/inspector", hub)

	go func() {
		log.Printf("inspector feed listening on %s/inspector", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("inspector: ListenAndServe: %v", err)
		}
	}()

	avatar := &scriptedAvatar{start: time.Now(), radius: *radius, periodS: *periodS}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng.Run(ctx, avatar, engine.RunOptions{
		AfterTick: func(e *engine.Engine) {
			avatarHex := e.AvatarTrueHex()
			offset := e.WorldHexOffset()
			hub.Broadcast(inspector.BuildSnapshot(e, [2]int{avatarHex.Q, avatarHex.R}, [2]int{offset.Q, offset.R}))
		},
	})
}
