package fabvote

import "testing"

func TestUserID(t *testing.T) {
	if got := UserID("alice@example.com"); got != "user_alice@example.com" {
		t.Fatalf("unexpected user id %s", got)
	}
}

func TestVoteIDDeterministic(t *testing.T) {
	a := VoteID("e1", "user_alice@example.com")
	b := VoteID("e1", "user_alice@example.com")
	if a != b {
		t.Fatalf("vote id not deterministic: %s != %s", a, b)
	}
	if a != "vote_e1_user_alice@example.com" {
		t.Fatalf("unexpected vote id %s", a)
	}
	if VoteID("e2", "user_alice@example.com") == a {
		t.Fatalf("vote id must depend on the election")
	}
}
