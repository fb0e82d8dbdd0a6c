package fabric

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

var tracer = otel.Tracer("fabric")

// transactor is the part of *gateway.Contract the gateway uses.
type transactor interface {
	EvaluateTransaction(name string, args ...string) ([]byte, error)
	SubmitTransaction(name string, args ...string) ([]byte, error)
}

type ConnectOptions struct {
	ConnectionProfile string
	Wallet            *Wallet
	Identity          string
	Channel           string
	Chaincode         string
	Discovery         bool
	AsLocalhost       bool
	CommitTimeout     time.Duration
}

// Network is the session bound to one channel and one chaincode for the
// lifetime of the process.
type Network struct {
	gateway   *gateway.Gateway
	contract  transactor
	channel   string
	chaincode string
}

func Connect(opts ConnectOptions) (*Network, error) {
	if opts.Discovery && opts.AsLocalhost {
		// peers discovered inside docker are reached through localhost ports
		err := os.Setenv("DISCOVERY_AS_LOCALHOST", "true")
		if err != nil {
			return nil, errors.Wrap(err, "failed to set DISCOVERY_AS_LOCALHOST")
		}
	}

	gwOpts := []gateway.Option{
		gateway.WithConfig(config.FromFile(filepath.Clean(opts.ConnectionProfile))),
		gateway.WithIdentity(opts.Wallet.wallet, opts.Identity),
	}
	if opts.CommitTimeout > 0 {
		gwOpts = append(gwOpts, gateway.WithTimeout(opts.CommitTimeout))
	}

	gw, err := gateway.Connect(gwOpts[0], gwOpts[1], gwOpts[2:]...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to gateway")
	}

	network, err := gw.GetNetwork(opts.Channel)
	if err != nil {
		gw.Close()
		return nil, errors.Wrapf(err, "failed to get network %s", opts.Channel)
	}

	slog.Info(
		"connected to fabric network",
		slog.String("channel", opts.Channel),
		slog.String("chaincode", opts.Chaincode),
		slog.String("identity", opts.Identity),
		slog.String("module", "fabric"),
	)

	return &Network{
		gateway:   gw,
		contract:  network.GetContract(opts.Chaincode),
		channel:   opts.Channel,
		chaincode: opts.Chaincode,
	}, nil
}

func (n *Network) Evaluate(ctx context.Context, name string, args ...string) ([]byte, error) {
	_, span := tracer.Start(ctx, "Fabric.Contract.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("channel", n.channel), attribute.String("chaincode", n.chaincode))

	result, err := n.contract.EvaluateTransaction(name, args...)
	if err != nil {
		span.RecordError(err)
		return nil, classify(name, err)
	}
	return result, nil
}

func (n *Network) Submit(ctx context.Context, name string, args ...string) ([]byte, error) {
	_, span := tracer.Start(ctx, "Fabric.Contract.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("channel", n.channel), attribute.String("chaincode", n.chaincode))

	result, err := n.contract.SubmitTransaction(name, args...)
	if err != nil {
		span.RecordError(err)
		return nil, classify(name, err)
	}
	return result, nil
}

func (n *Network) Channel() string {
	return n.channel
}

func (n *Network) Chaincode() string {
	return n.chaincode
}

func (n *Network) Close() {
	if n.gateway != nil {
		n.gateway.Close()
	}
}

var _ usecase.Contract = (*Network)(nil)
