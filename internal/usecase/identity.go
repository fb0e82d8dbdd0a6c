package usecase

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/fabvote/fabvote-gateway/internal/domain"
)

// IdentityUsecase makes sure the identities the gateway connects with are
// present in the wallet, enrolling them with the CA only when missing.
type IdentityUsecase struct {
	ca     CertificateAuthority
	wallet Wallet
}

func NewIdentityUsecase(ca CertificateAuthority, wallet Wallet) *IdentityUsecase {
	return &IdentityUsecase{ca: ca, wallet: wallet}
}

func (uc *IdentityUsecase) Bootstrap(ctx context.Context, spec domain.BootstrapSpec) error {
	ctx, span := tracer.Start(ctx, "Identity.Usecase.Bootstrap")
	defer span.End()

	err := uc.EnrollAdmin(ctx, spec)
	if err != nil {
		span.RecordError(err)
		return err
	}

	err = uc.RegisterAndEnrollUser(ctx, spec)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (uc *IdentityUsecase) EnrollAdmin(ctx context.Context, spec domain.BootstrapSpec) error {
	if uc.wallet.Exists(spec.AdminID) {
		slog.InfoContext(
			ctx, "admin identity already exists in the wallet",
			slog.String("label", spec.AdminID),
			slog.String("module", "identity"),
		)
		return nil
	}

	identity, err := uc.ca.Enroll(ctx, spec.AdminID, spec.AdminSecret)
	if err != nil {
		return errors.Wrap(err, "failed to enroll admin")
	}
	identity.Label = spec.AdminID
	identity.MSPID = spec.MSPID

	err = uc.wallet.Put(spec.AdminID, identity)
	if err != nil {
		return errors.Wrap(err, "failed to store admin identity")
	}

	slog.InfoContext(
		ctx, "enrolled admin and imported it into the wallet",
		slog.String("label", spec.AdminID),
		slog.String("module", "identity"),
	)
	return nil
}

func (uc *IdentityUsecase) RegisterAndEnrollUser(ctx context.Context, spec domain.BootstrapSpec) error {
	if uc.wallet.Exists(spec.UserID) {
		slog.InfoContext(
			ctx, "user identity already exists in the wallet",
			slog.String("label", spec.UserID),
			slog.String("module", "identity"),
		)
		return nil
	}

	// the CA registers with the admin as registrar
	admin, err := uc.wallet.Get(spec.AdminID)
	if err != nil {
		return errors.Wrapf(err, "admin identity %q not found in the wallet, enroll the admin first", spec.AdminID)
	}
	if admin.MSPID != spec.MSPID {
		return errors.Errorf("admin identity %q belongs to %s, expected %s", spec.AdminID, admin.MSPID, spec.MSPID)
	}

	secret, err := uc.ca.Register(ctx, domain.RegistrationRequest{
		Name:        spec.UserID,
		Type:        "client",
		Affiliation: spec.Affiliation,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to register user %s", spec.UserID)
	}

	identity, err := uc.ca.Enroll(ctx, spec.UserID, secret)
	if err != nil {
		return errors.Wrapf(err, "failed to enroll user %s", spec.UserID)
	}
	identity.Label = spec.UserID
	identity.MSPID = spec.MSPID

	err = uc.wallet.Put(spec.UserID, identity)
	if err != nil {
		return errors.Wrapf(err, "failed to store identity of %s", spec.UserID)
	}

	slog.InfoContext(
		ctx, "registered and enrolled user",
		slog.String("label", spec.UserID),
		slog.String("module", "identity"),
	)
	return nil
}
