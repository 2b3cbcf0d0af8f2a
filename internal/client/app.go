package client

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aminovt/solvault/internal/adapter"
	"github.com/aminovt/solvault/internal/derive"
	"github.com/aminovt/solvault/internal/keystore"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
)

// Command is one parsed client invocation.
type Command struct {
	// Name selects the action: keygen, list, status, version, or one of
	// the four vault operations.
	Name string

	// Identity names the keystore entry used for signing.
	Identity string

	// Passphrase unseals the identity's private key.
	Passphrase string

	// Amount is the transfer amount for deposit/withdraw.
	Amount uint64
}

// App executes client commands against the keystore and a remote vault
// server.
type App struct {
	server   adapter.ServerAdapter
	keystore *keystore.Keystore

	out io.Writer

	logger *logger.Logger
}

// NewApp wires a client application from its collaborators. Command output
// is written to out.
func NewApp(server adapter.ServerAdapter, keystore *keystore.Keystore, out io.Writer, logger *logger.Logger) *App {
	return &App{
		server:   server,
		keystore: keystore,
		out:      out,
		logger:   logger,
	}
}

// Run executes one command and writes its human-readable result to the
// configured output.
func (a *App) Run(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "keygen":
		return a.keygen(ctx, cmd)
	case "list":
		return a.list(ctx)
	case "version":
		return a.version(ctx)
	case "status":
		return a.status(ctx, cmd)
	case "initialize", "deposit", "withdraw", "close":
		return a.operation(ctx, cmd)
	default:
		return fmt.Errorf("unknown command %q", cmd.Name)
	}
}

// keygen creates a new sealed identity. Fully offline.
func (a *App) keygen(ctx context.Context, cmd Command) error {
	if cmd.Identity == "" {
		return fmt.Errorf("keygen requires an identity name")
	}

	address, err := a.keystore.CreateIdentity(ctx, cmd.Identity, cmd.Passphrase)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}

	fmt.Fprintf(a.out, "created identity %q\naddress: %s\n", cmd.Identity, address)
	return nil
}

// list prints the names of all stored identities. Fully offline.
func (a *App) list(ctx context.Context) error {
	names, err := a.keystore.ListIdentities(ctx)
	if err != nil {
		return fmt.Errorf("list identities: %w", err)
	}

	if len(names) == 0 {
		fmt.Fprintln(a.out, "no identities stored")
		return nil
	}

	fmt.Fprintln(a.out, strings.Join(names, "\n"))
	return nil
}

func (a *App) version(ctx context.Context) error {
	version, err := a.server.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("server version: %w", err)
	}

	fmt.Fprintf(a.out, "server version: %s\n", version)
	return nil
}

func (a *App) status(ctx context.Context, cmd Command) error {
	if _, _, err := a.openSession(ctx, cmd); err != nil {
		return err
	}

	view, err := a.server.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Fprintf(a.out, "owner:         %s\n", view.Owner)
	fmt.Fprintf(a.out, "state address: %s (bump %d)\n", view.StateAddress, view.StateBump)
	fmt.Fprintf(a.out, "vault address: %s (bump %d)\n", view.VaultAddress, view.VaultBump)
	fmt.Fprintf(a.out, "balance:       %d\n", view.Balance)
	fmt.Fprintf(a.out, "rent deposit:  %d\n", view.RentDeposit)
	return nil
}

// operation signs and submits one vault operation. The request carries the
// locally derived state and vault addresses so the server can reject the
// call if its own derivation disagrees.
func (a *App) operation(ctx context.Context, cmd Command) error {
	identity, priv, err := a.openSession(ctx, cmd)
	if err != nil {
		return err
	}

	request := models.OperationRequest{
		Op:       models.OperationKind(cmd.Name),
		Owner:    identity,
		Amount:   cmd.Amount,
		IssuedAt: time.Now(),
	}

	stateAddr, _, err := derive.FindState(identity)
	if err != nil {
		return fmt.Errorf("derive state address: %w", err)
	}
	vaultAddr, _, err := derive.FindVault(stateAddr)
	if err != nil {
		return fmt.Errorf("derive vault address: %w", err)
	}
	request.StateAddress = &stateAddr
	request.VaultAddress = &vaultAddr

	request.Signature = utils.SignPayload(priv, request.CanonicalBytes())

	result, err := a.server.Execute(ctx, request)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}

	fmt.Fprintf(a.out, "%s completed\n", result.Op)
	fmt.Fprintf(a.out, "moved amount:  %d\n", result.Amount)
	fmt.Fprintf(a.out, "vault balance: %d\n", result.Balance)
	return nil
}

// openSession unseals the identity and performs the signed handshake that
// authenticates subsequent requests.
func (a *App) openSession(ctx context.Context, cmd Command) (models.Address, ed25519.PrivateKey, error) {
	if cmd.Identity == "" {
		return models.Address{}, nil, fmt.Errorf("command %q requires an identity name", cmd.Name)
	}

	priv, err := a.keystore.LoadIdentity(ctx, cmd.Identity, cmd.Passphrase)
	if err != nil {
		return models.Address{}, nil, fmt.Errorf("load identity %q: %w", cmd.Identity, err)
	}

	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return models.Address{}, nil, fmt.Errorf("unexpected public key type")
	}
	identity, err := models.AddressFromBytes(pub)
	if err != nil {
		return models.Address{}, nil, err
	}

	handshake := models.SessionRequest{
		Identity: identity,
		IssuedAt: time.Now(),
	}
	handshake.Signature = utils.SignPayload(priv, handshake.CanonicalBytes())

	if err = a.server.CreateSession(ctx, handshake); err != nil {
		return models.Address{}, nil, fmt.Errorf("session handshake: %w", err)
	}

	return identity, priv, nil
}
