package fabric

import (
	"context"
	"errors"

	"github.com/hyperledger/fabric-sdk-go/pkg/common/errors/status"
	grpccodes "google.golang.org/grpc/codes"

	"github.com/fabvote/fabvote-gateway/internal/domain"
)

// classify tags a transaction error as unavailable when the network could
// not be reached and as rejected otherwise.
func classify(transaction string, err error) error {
	kind := domain.KindRejected

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = domain.KindUnavailable
	} else if s, ok := status.FromError(err); ok {
		switch s.Group {
		case status.GRPCTransportStatus:
			switch grpccodes.Code(s.Code) {
			case grpccodes.Unavailable, grpccodes.DeadlineExceeded, grpccodes.ResourceExhausted:
				kind = domain.KindUnavailable
			}
		case status.ClientStatus:
			switch s.Code {
			case int32(status.ConnectionFailed), int32(status.Timeout), int32(status.NoPeersFound):
				kind = domain.KindUnavailable
			}
		case status.DiscoveryServerStatus:
			kind = domain.KindUnavailable
		}
	}

	return domain.NewLedgerError(kind, transaction, err)
}
