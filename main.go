/*
This is an example application that drives the engine package with the
testbed castle scene.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/emberengine/ember/engine"
	"github.com/emberengine/ember/engine/config"
	"github.com/emberengine/ember/testbed"
)

func main() {
	cfg, err := config.Load("ember.toml")
	if err != nil {
		panic(err)
	}

	tb := testbed.NewTestGame(cfg)

	eng, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		eng.Stop()
	}()

	if err := eng.Run(); err != nil {
		panic(err)
	}
}
