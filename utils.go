package fabvote

import (
	"encoding/json"
	"fmt"
)

func JsonPrint(tag string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%s: error marshaling: %v\n", tag, err)
		return
	}
	fmt.Printf("%s: %s\n", tag, string(b))
}

// UserID is the ledger key of the user registered with email.
func UserID(email string) string {
	return "user_" + email
}

// VoteID is the ledger key of userID's ballot in electionID. The chaincode
// rejects an existing key, which is what makes a second vote fail.
func VoteID(electionID, userID string) string {
	return "vote_" + electionID + "_" + userID
}
