package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aminovt/solvault/internal/adapter"
	"github.com/aminovt/solvault/internal/client"
	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/keystore"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `Usage: solvault <command> [flags]

Commands:
  keygen      generate a new identity in the local keystore
  list        list identities stored in the local keystore
  status      show the vault balances of an identity
  initialize  create the vault for an identity
  deposit     move funds from the owner into the vault
  withdraw    move funds from the vault back to the owner
  close       drain the vault and retire its bookkeeping record
  version     print client and server versions

Flags:
  -identity    name of the keystore identity to act as
  -passphrase  keystore passphrase (or set SOLVAULT_PASSPHRASE)
  -amount      transfer amount for deposit and withdraw
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	cmd := client.Command{Name: os.Args[1]}

	flags := flag.NewFlagSet(cmd.Name, flag.ExitOnError)
	flags.StringVar(&cmd.Identity, "identity", "", "keystore identity name")
	flags.StringVar(&cmd.Passphrase, "passphrase", "", "keystore passphrase")
	flags.Uint64Var(&cmd.Amount, "amount", 0, "transfer amount in base units")
	if err := flags.Parse(os.Args[2:]); err != nil {
		return err
	}

	if env := os.Getenv("SOLVAULT_PASSPHRASE"); cmd.Passphrase == "" && env != "" {
		cmd.Passphrase = env
	}

	cfg, err := config.GetClientConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	log := logger.NewFileLogger("solvault-client", filepath.Join(filepath.Dir(cfg.Keystore.Path), "client.log"))
	log.Debug().Str("version", buildInfo.BuildVersion()).Str("command", cmd.Name).Msg("client started")

	ctx := context.Background()

	ks, err := keystore.Open(ctx, cfg.Keystore.Path, log)
	if err != nil {
		return fmt.Errorf("error opening keystore: %w", err)
	}
	defer ks.Close()

	server, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return fmt.Errorf("error creating server adapter: %w", err)
	}

	if cmd.Name == "version" {
		fmt.Print(buildInfo)
	}

	return client.NewApp(server, ks, os.Stdout, log).Run(ctx, cmd)
}
