package main

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServeGracefulShutdown(t *testing.T) {
	app := newBareApplication()

	done := make(chan error, 1)
	go func() {
		done <- app.serve("localhost:0")
	}()

	// give serve time to install its signal handler before firing
	time.Sleep(500 * time.Millisecond)

	err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	assert.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after the shutdown signal")
	}
}
