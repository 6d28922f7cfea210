// Command headless runs a bot client against a paintbrawl server. It
// drives the full engine (channel, reconciliation, prediction, combat)
// without a browser, which makes it useful for soaking the server and
// for watching two clients converge on the same world.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"paintbrawl/internal/engine"
)

const (
	viewportW = 1280
	viewportH = 720

	// Bot decisions happen every decisionTicks simulation ticks, not
	// every tick, so movement looks like wandering rather than jitter.
	decisionTicks = 30
	fireChance    = 0.2
	paintChance   = 0.1
)

var directions = []engine.Direction{
	engine.DirUp, engine.DirDown, engine.DirLeft, engine.DirRight,
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	name := flag.String("name", fmt.Sprintf("bot-%04d", rand.Intn(10000)), "player name")
	account := flag.Int("account", 1, "account id")
	journal := flag.String("journal", "", "write the session journal here on exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	host := strings.TrimPrefix(strings.TrimPrefix(*addr, "http://"), "ws://")
	ch := engine.DialChannel(ctx, "ws://"+host+"/ws")
	defer ch.Close()

	eng := engine.New(engine.Config{
		ViewportW: viewportW,
		ViewportH: viewportH,
		AccountID: *account,
		BaseURL:   "http://" + host,
	}, ch, nil)

	if err := eng.Overlay().Load(ctx); err != nil {
		log.Printf("drawing replay unavailable: %v", err)
	}

	log.Printf("bot %q joining %s", *name, host)
	run(ctx, eng, ch, *name)

	// Two bots run against the same server and their journals compared
	// is the quickest way to find a divergence.
	if *journal != "" {
		if err := dumpJournal(eng, *journal); err != nil {
			log.Printf("journal dump: %v", err)
		}
	}
}

func dumpJournal(eng *engine.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := eng.Journal().Dump(f); err != nil {
		f.Close()
		return err
	}
	log.Printf("journal: %d entries written to %s", eng.Journal().Len(), path)
	return f.Close()
}

func run(ctx context.Context, eng *engine.Engine, ch *engine.WSChannel, name string) {
	ticker := time.NewTicker(engine.TickPeriod)
	defer ticker.Stop()

	created := false
	tick := 0

	for {
		select {
		case <-ctx.Done():
			return

		case env, ok := <-ch.Inbox:
			if !ok {
				return
			}
			eng.HandleMessage(env)

		case <-ch.Opened:
			// Fresh connection (or reconnect): resync the world.
			eng.RequestPlayers()
			if !created {
				eng.CreatePlayer(name)
				created = true
			}

		case <-ticker.C:
			tick++
			if tick%decisionTicks == 0 && eng.ControlledID() != 0 {
				decide(eng)
			}
			eng.Tick()
		}
	}
}

// decide picks the bot's next action: wander, take a shot at a random
// point, or stamp some paint.
func decide(eng *engine.Engine) {
	for _, d := range directions {
		eng.KeyUp(d)
	}

	switch r := rand.Float64(); {
	case r < fireChance:
		if eng.Mode() == engine.ModeNone {
			if err := eng.ToggleGun(); err != nil {
				return
			}
		}
		eng.Click(rand.Intn(viewportW), rand.Intn(viewportH))
		eng.ToggleGun()

	case r < fireChance+paintChance:
		eng.Overlay().SetActive(true)
		eng.Paint(rand.Intn(viewportW), rand.Intn(viewportH))
		eng.Overlay().SetActive(false)

	default:
		eng.KeyDown(directions[rand.Intn(len(directions))])
	}
}
