package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

func newElectionUsecase(contract *mockContract) *ElectionUsecase {
	return NewElectionUsecase(NewLedgerUsecase(contract))
}

func TestRegisterUserDerivesID(t *testing.T) {
	contract := &mockContract{}
	uc := newElectionUsecase(contract)

	id, err := uc.RegisterUser(context.Background(), fabvote.RegisterUserRequest{
		Name: "Alice", Email: "alice@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if id != "user_alice@example.com" {
		t.Fatalf("unexpected id %s", id)
	}

	want := call{kind: "submit", name: "RegisterUser", args: []string{"user_alice@example.com", "Alice", "alice@example.com", "pw"}}
	if !reflect.DeepEqual(contract.calls[0], want) {
		t.Fatalf("unexpected call %+v", contract.calls[0])
	}
}

func TestRegisterUserRequiresEmail(t *testing.T) {
	contract := &mockContract{}
	uc := newElectionUsecase(contract)

	_, err := uc.RegisterUser(context.Background(), fabvote.RegisterUserRequest{Name: "Alice"})
	if domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid input got %v", err)
	}
	if len(contract.calls) != 0 {
		t.Fatalf("contract must not be called")
	}
}

func TestLoginUserReturnsFirstRecord(t *testing.T) {
	contract := &mockContract{response: map[string][]byte{
		"LoginUser": []byte(`[{"ID":"user_a","Name":"A","Email":"a","Password":"p","Doctype":"user"},{"ID":"user_b"}]`),
	}}
	uc := newElectionUsecase(contract)

	res, err := uc.LoginUser(context.Background(), fabvote.LoginUserRequest{Email: "a", Password: "p"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != "user_a" {
		t.Fatalf("expected first record got %+v", res.User)
	}
	if string(res.Raw) != `{"ID":"user_a","Name":"A","Email":"a","Password":"p","Doctype":"user"}` {
		t.Fatalf("raw record altered: %s", res.Raw)
	}
}

func TestLoginUserEmpty(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		contract := &mockContract{response: map[string][]byte{"LoginUser": []byte(body)}}
		uc := newElectionUsecase(contract)

		_, err := uc.LoginUser(context.Background(), fabvote.LoginUserRequest{Email: "a", Password: "p"})
		if !errors.Is(err, domain.ErrLoginFailed) {
			t.Fatalf("%s: expected login failure got %v", body, err)
		}
		if err.Error() != "Email or Password incorrect" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}
}

func TestVoteCastingRequiresUser(t *testing.T) {
	contract := &mockContract{}
	uc := newElectionUsecase(contract)

	_, err := uc.VoteCasting(context.Background(), nil, fabvote.VoteCastingRequest{ElectionID: "e1", CandidateID: "c1"})
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated got %v", err)
	}
	if len(contract.calls) != 0 {
		t.Fatalf("contract must not be called")
	}
}

func TestVoteCastingDerivesID(t *testing.T) {
	contract := &mockContract{}
	uc := newElectionUsecase(contract)
	user := &fabvote.User{ID: "user_a@example.com"}

	for i := 0; i < 2; i++ {
		id, err := uc.VoteCasting(context.Background(), user, fabvote.VoteCastingRequest{ElectionID: "e1", CandidateID: "c1"})
		if err != nil {
			t.Fatalf("vote failed: %v", err)
		}
		if id != "vote_e1_user_a@example.com" {
			t.Fatalf("unexpected id %s", id)
		}
	}

	want := []string{"vote_e1_user_a@example.com", "e1", "c1"}
	for _, c := range contract.calls {
		if c.name != "VoteCasting" || !reflect.DeepEqual(c.args, want) {
			t.Fatalf("unexpected call %+v", c)
		}
	}
}

func TestElectionCalls(t *testing.T) {
	contract := &mockContract{}
	uc := newElectionUsecase(contract)
	ctx := context.Background()

	if err := uc.CreateElection(ctx, fabvote.CreateElectionRequest{ID: "e1", Name: "Board Election"}); err != nil {
		t.Fatal(err)
	}
	if err := uc.AddCandidate(ctx, fabvote.AddCandidateRequest{ID: "c1", Name: "Alice", Marka: "A", ElectionID: "e1"}); err != nil {
		t.Fatal(err)
	}
	if err := uc.StopElection(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	uc.ShowAllCandidates(ctx, "e1")
	uc.ShowAllElections(ctx, "election")
	uc.CalculateResult(ctx, "e1")
	uc.SayHello(ctx)

	want := []call{
		{kind: "submit", name: "CreateElection", args: []string{"e1", "Board Election"}},
		{kind: "submit", name: "AddCandidate", args: []string{"c1", "Alice", "A", "e1"}},
		{kind: "submit", name: "StopElection", args: []string{"e1"}},
		{kind: "evaluate", name: "ShowAllCandidates", args: []string{"e1"}},
		{kind: "evaluate", name: "ShowAllElections", args: []string{"election"}},
		{kind: "evaluate", name: "CalculateResult", args: []string{"e1"}},
		{kind: "evaluate", name: "SayHello", args: nil},
	}
	if !reflect.DeepEqual(contract.calls, want) {
		t.Fatalf("unexpected calls\n got %+v\nwant %+v", contract.calls, want)
	}
}
