package main

import "context"

// Shutdowner is anything command_sshd.go's closer can gracefully stop.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

type closer struct {
	ch chan bool
}

func newCloser() *closer {
	return &closer{ch: make(chan bool, 1)}
}
