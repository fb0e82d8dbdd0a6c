package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

// ElectionUsecase maps each gateway operation onto one chaincode call.
type ElectionUsecase struct {
	ledger *LedgerUsecase
}

func NewElectionUsecase(ledger *LedgerUsecase) *ElectionUsecase {
	return &ElectionUsecase{ledger: ledger}
}

// LoginResult is the first matching user, kept as the ledger's own bytes
// so the response and the cookie carry exactly what the chaincode returned.
type LoginResult struct {
	Raw  json.RawMessage
	User fabvote.User
}

func (uc *ElectionUsecase) SayHello(ctx context.Context) ([]byte, error) {
	return uc.ledger.Evaluate(ctx, true, domain.TxSayHello)
}

func (uc *ElectionUsecase) RegisterUser(ctx context.Context, req fabvote.RegisterUserRequest) (string, error) {
	if err := required("email", req.Email); err != nil {
		return "", err
	}
	id := fabvote.UserID(req.Email)
	_, err := uc.ledger.Submit(
		ctx,
		&fabvote.Event{Type: domain.EventUserRegistered, SubjectID: id},
		domain.TxRegisterUser, id, req.Name, req.Email, req.Password,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (uc *ElectionUsecase) LoginUser(ctx context.Context, req fabvote.LoginUserRequest) (LoginResult, error) {
	result, err := uc.ledger.Evaluate(ctx, false, domain.TxLoginUser, req.Email, req.Password)
	if err != nil {
		return LoginResult{}, err
	}

	var users []json.RawMessage
	err = json.Unmarshal(result, &users)
	if err != nil {
		return LoginResult{}, domain.NewLedgerError(domain.KindInternal, domain.TxLoginUser, errors.Wrap(err, "unexpected LoginUser response"))
	}
	if len(users) == 0 {
		return LoginResult{}, domain.ErrLoginFailed
	}

	var user fabvote.User
	err = json.Unmarshal(users[0], &user)
	if err != nil {
		return LoginResult{}, domain.NewLedgerError(domain.KindInternal, domain.TxLoginUser, errors.Wrap(err, "unexpected user record"))
	}

	return LoginResult{Raw: users[0], User: user}, nil
}

func (uc *ElectionUsecase) ShowAllCandidates(ctx context.Context, electionID string) ([]byte, error) {
	return uc.ledger.Evaluate(ctx, true, domain.TxShowAllCandidates, electionID)
}

func (uc *ElectionUsecase) ShowAllElections(ctx context.Context, doctype string) ([]byte, error) {
	return uc.ledger.Evaluate(ctx, true, domain.TxShowAllElections, doctype)
}

func (uc *ElectionUsecase) CreateElection(ctx context.Context, req fabvote.CreateElectionRequest) error {
	if err := required("id", req.ID); err != nil {
		return err
	}
	_, err := uc.ledger.Submit(
		ctx,
		&fabvote.Event{Type: domain.EventElectionCreated, ElectionID: req.ID, SubjectID: req.ID},
		domain.TxCreateElection, req.ID, req.Name,
	)
	return err
}

func (uc *ElectionUsecase) AddCandidate(ctx context.Context, req fabvote.AddCandidateRequest) error {
	if err := required("id", req.ID); err != nil {
		return err
	}
	_, err := uc.ledger.Submit(
		ctx,
		&fabvote.Event{Type: domain.EventCandidateAdded, ElectionID: req.ElectionID, SubjectID: req.ID},
		domain.TxAddCandidate, req.ID, req.Name, req.Marka, req.ElectionID,
	)
	return err
}

// VoteCasting submits user's ballot. The ballot id is derived from the
// election and the user so a repeated vote maps onto the same ledger key.
func (uc *ElectionUsecase) VoteCasting(ctx context.Context, user *fabvote.User, req fabvote.VoteCastingRequest) (string, error) {
	if user == nil || user.ID == "" {
		return "", domain.ErrNotLoggedIn
	}
	id := fabvote.VoteID(req.ElectionID, user.ID)
	_, err := uc.ledger.Submit(
		ctx,
		&fabvote.Event{Type: domain.EventVoteCasted, ElectionID: req.ElectionID},
		domain.TxVoteCasting, id, req.ElectionID, req.CandidateID,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (uc *ElectionUsecase) StopElection(ctx context.Context, id string) error {
	if err := required("id", id); err != nil {
		return err
	}
	_, err := uc.ledger.Submit(
		ctx,
		&fabvote.Event{Type: domain.EventElectionStopped, ElectionID: id, SubjectID: id},
		domain.TxStopElection, id,
	)
	return err
}

func (uc *ElectionUsecase) CalculateResult(ctx context.Context, electionID string) ([]byte, error) {
	return uc.ledger.Evaluate(ctx, true, domain.TxCalculateResult, electionID)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.InvalidInput(field + " is required")
	}
	return nil
}
