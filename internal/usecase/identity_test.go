package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabvote/fabvote-gateway/internal/domain"
)

type mockCA struct {
	enrolled   []string
	registered []domain.RegistrationRequest
	err        error
}

func (m *mockCA) Enroll(ctx context.Context, enrollmentID, secret string) (domain.Identity, error) {
	if m.err != nil {
		return domain.Identity{}, m.err
	}
	m.enrolled = append(m.enrolled, enrollmentID+":"+secret)
	return domain.Identity{Certificate: "cert-" + enrollmentID, PrivateKey: "key-" + enrollmentID}, nil
}

func (m *mockCA) Register(ctx context.Context, req domain.RegistrationRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.registered = append(m.registered, req)
	return "secret-" + req.Name, nil
}

type mockWallet struct {
	identities map[string]domain.Identity
}

func (m *mockWallet) Exists(label string) bool {
	_, ok := m.identities[label]
	return ok
}

func (m *mockWallet) Put(label string, identity domain.Identity) error {
	m.identities[label] = identity
	return nil
}

func (m *mockWallet) Get(label string) (domain.Identity, error) {
	id, ok := m.identities[label]
	if !ok {
		return domain.Identity{}, domain.NotFoundError{Resource: label}
	}
	return id, nil
}

var testSpec = domain.BootstrapSpec{
	MSPID:       "Org1MSP",
	AdminID:     "admin",
	AdminSecret: "adminpw",
	UserID:      "appUser",
	Affiliation: "org1.department1",
}

func TestBootstrapEnrollsBoth(t *testing.T) {
	ca := &mockCA{}
	wallet := &mockWallet{identities: map[string]domain.Identity{}}
	uc := NewIdentityUsecase(ca, wallet)

	require.NoError(t, uc.Bootstrap(context.Background(), testSpec))

	require.Equal(t, []string{"admin:adminpw", "appUser:secret-appUser"}, ca.enrolled)
	require.Len(t, ca.registered, 1)
	require.Equal(t, domain.RegistrationRequest{Name: "appUser", Type: "client", Affiliation: "org1.department1"}, ca.registered[0])

	user, err := wallet.Get("appUser")
	require.NoError(t, err)
	require.Equal(t, "Org1MSP", user.MSPID)
	require.Equal(t, "cert-appUser", user.Certificate)
	require.True(t, wallet.Exists("admin"))
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ca := &mockCA{}
	wallet := &mockWallet{identities: map[string]domain.Identity{}}
	uc := NewIdentityUsecase(ca, wallet)

	require.NoError(t, uc.Bootstrap(context.Background(), testSpec))
	require.NoError(t, uc.Bootstrap(context.Background(), testSpec))

	require.Len(t, ca.enrolled, 2)
	require.Len(t, ca.registered, 1)
}

func TestRegisterUserNeedsAdmin(t *testing.T) {
	ca := &mockCA{}
	wallet := &mockWallet{identities: map[string]domain.Identity{}}
	uc := NewIdentityUsecase(ca, wallet)

	err := uc.RegisterAndEnrollUser(context.Background(), testSpec)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Empty(t, ca.registered)
}

func TestRegisterUserRejectsAdminOfOtherMSP(t *testing.T) {
	ca := &mockCA{}
	wallet := &mockWallet{identities: map[string]domain.Identity{
		"admin": {Label: "admin", MSPID: "Org2MSP"},
	}}
	uc := NewIdentityUsecase(ca, wallet)

	err := uc.RegisterAndEnrollUser(context.Background(), testSpec)
	require.ErrorContains(t, err, "Org2MSP")
	require.Empty(t, ca.registered)
	require.False(t, wallet.Exists("appUser"))
}

func TestBootstrapCAFailure(t *testing.T) {
	ca := &mockCA{err: errors.New("connection refused")}
	wallet := &mockWallet{identities: map[string]domain.Identity{}}
	uc := NewIdentityUsecase(ca, wallet)

	err := uc.Bootstrap(context.Background(), testSpec)
	require.ErrorContains(t, err, "connection refused")
	require.False(t, wallet.Exists("admin"))
	require.False(t, wallet.Exists("appUser"))
}
