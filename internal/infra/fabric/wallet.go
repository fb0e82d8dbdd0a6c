package fabric

import (
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
	"github.com/pkg/errors"

	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

type Wallet struct {
	wallet *gateway.Wallet
}

func NewFileSystemWallet(path string) (*Wallet, error) {
	w, err := gateway.NewFileSystemWallet(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open wallet %s", path)
	}
	return &Wallet{wallet: w}, nil
}

func (w *Wallet) Exists(label string) bool {
	return w.wallet.Exists(label)
}

func (w *Wallet) Put(label string, identity domain.Identity) error {
	return w.wallet.Put(label, gateway.NewX509Identity(identity.MSPID, identity.Certificate, identity.PrivateKey))
}

func (w *Wallet) Get(label string) (domain.Identity, error) {
	if !w.wallet.Exists(label) {
		return domain.Identity{}, domain.NotFoundError{Resource: "identity " + label}
	}

	id, err := w.wallet.Get(label)
	if err != nil {
		return domain.Identity{}, errors.Wrapf(err, "failed to read identity %s", label)
	}

	x509, ok := id.(*gateway.X509Identity)
	if !ok {
		return domain.Identity{}, errors.Errorf("identity %s is not an X.509 identity", label)
	}

	return domain.Identity{
		Label:       label,
		MSPID:       x509.MspID,
		Certificate: x509.Certificate(),
		PrivateKey:  x509.Key(),
	}, nil
}

var _ usecase.Wallet = (*Wallet)(nil)
