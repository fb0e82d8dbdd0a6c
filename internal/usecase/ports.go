package usecase

import (
	"context"
	"time"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

// Contract is the bound chaincode handle. Evaluate is a read-only query
// answered by a peer, Submit is ordered and committed before it returns.
type Contract interface {
	Evaluate(ctx context.Context, name string, args ...string) ([]byte, error)
	Submit(ctx context.Context, name string, args ...string) ([]byte, error)
}

// QueryCache holds evaluate results between submissions.
type QueryCache interface {
	Get(ctx context.Context, name string, args []string) ([]byte, bool)
	Set(ctx context.Context, name string, args []string, value []byte)
	Flush(ctx context.Context)
}

// TransactionLogRepository records ledger invocations.
type TransactionLogRepository interface {
	Create(ctx context.Context, entry fabvote.TransactionLog) error
	Get(ctx context.Context, id string) (fabvote.TransactionLog, error)
	List(ctx context.Context, limit int) ([]fabvote.TransactionLog, error)
}

// EventPublisher announces committed submissions.
type EventPublisher interface {
	Publish(ctx context.Context, event fabvote.Event) error
}

// CertificateAuthority enrolls and registers identities.
type CertificateAuthority interface {
	Enroll(ctx context.Context, enrollmentID, secret string) (domain.Identity, error)
	Register(ctx context.Context, req domain.RegistrationRequest) (string, error)
}

// Wallet persists enrolled identities by label.
type Wallet interface {
	Exists(label string) bool
	Put(label string, identity domain.Identity) error
	Get(label string) (domain.Identity, error)
}

type clock func() time.Time
