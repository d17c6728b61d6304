package main

import (
	"context"
	"errors"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"

	"github.com/privcrate/registry/internal/registry/config"
	"github.com/privcrate/registry/internal/registry/database"
	"github.com/privcrate/registry/internal/registry/sshserver"
)

// SSHD runs the registry's git-upload-pack SSH front end until signaled
// to stop.
type SSHD struct {
	Config string `short:"c" name:"config" help:"Location of the server config file" default:"/etc/chartered/gitd.toml" type:"path"`
}

func (c *SSHD) Run(globals *Globals) error {
	sc, err := config.NewServerConfig(c.Config, globals.ExpandEnv)
	if err != nil {
		logrus.Errorf("chartered-gitd: load server config: %v", err)
		return err
	}

	store, err := database.NewMySQLStore(sc.DB.MakeConfig())
	if err != nil {
		logrus.Errorf("chartered-gitd: open database: %v", err)
		return err
	}

	srv, err := sshserver.NewServer(sc, store)
	if err != nil {
		logrus.Errorf("chartered-gitd: new sshd server: %v", err)
		return err
	}

	quit := newCloser()
	go quit.listenSignal(context.Background(), srv)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		logrus.Errorf("chartered-gitd: listen: %v", err)
		return err
	}
	<-quit.ch
	logrus.Infof("chartered-gitd: sshd exited")
	return nil
}
