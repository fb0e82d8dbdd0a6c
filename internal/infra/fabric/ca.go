package fabric

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/pkg/errors"

	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

// CertificateAuthority talks to the Fabric CA named in the connection
// profile. Enrolled key material lands in the SDK credential store first;
// the private key is read back from its file keystore so the identity can
// be exported to the wallet.
type CertificateAuthority struct {
	sdk      *fabsdk.FabricSDK
	client   *msp.Client
	keystore string
}

func NewCertificateAuthority(profilePath, org, caHost, keystore string) (*CertificateAuthority, error) {
	sdk, err := fabsdk.New(config.FromFile(filepath.Clean(profilePath)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fabric sdk")
	}

	client, err := msp.New(sdk.Context(), msp.WithOrg(org), msp.WithCAInstance(caHost))
	if err != nil {
		sdk.Close()
		return nil, errors.Wrapf(err, "failed to create CA client for %s", caHost)
	}

	return &CertificateAuthority{
		sdk:      sdk,
		client:   client,
		keystore: keystore,
	}, nil
}

func (ca *CertificateAuthority) Enroll(ctx context.Context, enrollmentID, secret string) (domain.Identity, error) {
	_, span := tracer.Start(ctx, "Fabric.CA.Enroll")
	defer span.End()

	err := ca.client.Enroll(enrollmentID, msp.WithSecret(secret))
	if err != nil {
		span.RecordError(err)
		return domain.Identity{}, errors.Wrapf(err, "enroll %s", enrollmentID)
	}

	si, err := ca.client.GetSigningIdentity(enrollmentID)
	if err != nil {
		span.RecordError(err)
		return domain.Identity{}, errors.Wrapf(err, "signing identity of %s", enrollmentID)
	}

	key, err := ca.readPrivateKey(si.PrivateKey().SKI())
	if err != nil {
		span.RecordError(err)
		return domain.Identity{}, err
	}

	return domain.Identity{
		Label:       enrollmentID,
		MSPID:       si.Identifier().MSPID,
		Certificate: string(si.EnrollmentCertificate()),
		PrivateKey:  string(key),
	}, nil
}

func (ca *CertificateAuthority) Register(ctx context.Context, req domain.RegistrationRequest) (string, error) {
	_, span := tracer.Start(ctx, "Fabric.CA.Register")
	defer span.End()

	secret, err := ca.client.Register(&msp.RegistrationRequest{
		Name:        req.Name,
		Type:        req.Type,
		Affiliation: req.Affiliation,
	})
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrapf(err, "register %s", req.Name)
	}
	return secret, nil
}

func (ca *CertificateAuthority) Close() {
	ca.sdk.Close()
}

// readPrivateKey loads <hex SKI>_sk, the file name the SDK file keystore uses.
func (ca *CertificateAuthority) readPrivateKey(ski []byte) ([]byte, error) {
	path := filepath.Join(ca.keystore, hex.EncodeToString(ski)+"_sk")
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "private key not found in keystore %s", ca.keystore)
	}
	return key, nil
}

var _ usecase.CertificateAuthority = (*CertificateAuthority)(nil)
