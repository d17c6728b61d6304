// Package config loads the registry's server configuration from a TOML
// file, the way pkg/serve/sshserver.NewServerConfig loads its own.
package config

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"

	"github.com/privcrate/registry/modules/streamio"
)

const maxAllowedPacket = 16777216
const maxConfigSize = 64 << 20

// newExpandReader opens file and, if expandEnv is set, expands
// $VAR/${VAR} references in its contents before the TOML decode sees
// them.
func newExpandReader(file string, expandEnv bool) (io.ReadCloser, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	if !expandEnv {
		return fd, nil
	}
	defer fd.Close()
	buf, err := streamio.GrowReadMax(fd, maxConfigSize, 4096)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(os.ExpandEnv(string(buf)))), nil
}

const (
	DefaultIdleTimeout   = 5 * time.Minute
	DefaultMaxTimeout    = 2 * time.Hour
	DefaultGreeting      = "Hello from chartered!\n"
	DefaultWorkerPool    = 16
	DefaultCommitMessage = "synced crate index"
)

// Database is the relational store connection the registry reads
// users, sessions, and crate versions from.
type Database struct {
	Name    string   `toml:"name"`
	User    string   `toml:"user"`
	Host    string   `toml:"host"`
	Port    int      `toml:"port"`
	Passwd  string   `toml:"passwd"`
	Timeout Duration `toml:"timeout,omitempty"`
}

func (d *Database) decrypt(privateKeyPEM string) {
	d.Passwd = decryptValue(d.Passwd, privateKeyPEM)
}

// MakeConfig builds the go-sql-driver/mysql config this store connects
// with.
func (d *Database) MakeConfig() *mysql.Config {
	timeout := d.Timeout.Duration
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Passwd
	cfg.DBName = d.Name
	cfg.Net = "tcp"
	cfg.Addr = d.Host + ":" + strconv.Itoa(d.Port)
	cfg.Timeout = timeout
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	cfg.MaxAllowedPacket = maxAllowedPacket
	return cfg
}

// Identity is a Git author/committer identity: "Name <email>".
type Identity struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// ServerConfig is the registry sshd's full configuration surface.
type ServerConfig struct {
	Listen          string    `toml:"listen"`
	WebBase         string    `toml:"web_base"`
	HostPrivateKeys []string  `toml:"host_private_keys"`
	DecryptedKey    string    `toml:"decrypted_key,omitempty"`
	Greeting        string    `toml:"greeting,omitempty"`
	WorkerPoolSize  int64     `toml:"worker_pool_size,omitempty"`
	IdleTimeout     Duration  `toml:"idle_timeout,omitempty"`
	MaxTimeout      Duration  `toml:"max_timeout,omitempty"`
	CommitAuthor    *Identity `toml:"commit_author,omitempty"`
	CommitCommitter *Identity `toml:"commit_committer,omitempty"`
	CommitMessage   string    `toml:"commit_message,omitempty"`
	DB              *Database `toml:"database"`
}

// NewServerConfig reads and decodes file, applying the optional
// $VAR/${VAR} environment expansion pass before the TOML decode, the
// same two-step pkg/serve.NewExpandReader performs.
func NewServerConfig(file string, expandEnv bool) (*ServerConfig, error) {
	r, err := newExpandReader(file, expandEnv)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sc := &ServerConfig{
		Listen:         "127.0.0.1:2222",
		Greeting:       DefaultGreeting,
		WorkerPoolSize: DefaultWorkerPool,
		CommitMessage:  DefaultCommitMessage,
		IdleTimeout:    Duration{DefaultIdleTimeout},
		MaxTimeout:     Duration{DefaultMaxTimeout},
	}
	if _, err := toml.NewDecoder(r).Decode(sc); err != nil {
		return nil, err
	}

	if sc.DB != nil {
		sc.DB.decrypt(sc.DecryptedKey)
	}
	if sc.CommitCommitter == nil {
		sc.CommitCommitter = sc.CommitAuthor
	}
	if sc.CommitAuthor == nil {
		sc.CommitAuthor = sc.CommitCommitter
	}
	if sc.WorkerPoolSize <= 0 {
		sc.WorkerPoolSize = DefaultWorkerPool
	}
	return sc, nil
}
