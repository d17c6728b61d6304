package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Keygen emits a fresh host keypair to stdout, covering the "host key
// persisted by an external collaborator" requirement: something has to
// produce that file once, outside this process's own lifetime.
type Keygen struct {
	Type    string `name:"type" short:"t" help:"Private key type: rsa, ed25519" default:"ed25519"`
	BitSize int    `name:"bit-size" help:"RSA key size in bits" default:"3072"`
}

func (c *Keygen) genRSA() error {
	if c.BitSize < 2048 {
		c.BitSize = 2048
	}
	key, err := rsa.GenerateKey(rand.Reader, c.BitSize)
	if err != nil {
		return fmt.Errorf("generate rsa key: %w", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	_, _ = fmt.Fprint(os.Stdout, string(pem.EncodeToMemory(block)))
	return nil
}

func (c *Keygen) genED25519() error {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate ed25519 key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(privateKey, "")
	if err != nil {
		return fmt.Errorf("marshal ed25519 key: %w", err)
	}
	_, _ = fmt.Fprint(os.Stdout, string(pem.EncodeToMemory(block)))
	return nil
}

func (c *Keygen) Run(_ *Globals) error {
	switch strings.ToLower(c.Type) {
	case "rsa":
		return c.genRSA()
	case "ed25519":
		return c.genED25519()
	default:
		return errors.New("unsupported key type: " + c.Type)
	}
}
