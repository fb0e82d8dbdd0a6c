package domain

import "time"

// chaincode transaction names
const (
	TxSayHello          = "SayHello"
	TxRegisterUser      = "RegisterUser"
	TxLoginUser         = "LoginUser"
	TxShowAllCandidates = "ShowAllCandidates"
	TxShowAllElections  = "ShowAllElections"
	TxCreateElection    = "CreateElection"
	TxAddCandidate      = "AddCandidate"
	TxVoteCasting       = "VoteCasting"
	TxStopElection      = "StopElection"
	TxCalculateResult   = "CalculateResult"
)

const (
	UserCookieName = "user"
	UserCookieTTL  = time.Hour

	RequesterCtxKey = "fv-requester"
)

const (
	EventUserRegistered  = "user.registered"
	EventElectionCreated = "election.created"
	EventCandidateAdded  = "candidate.added"
	EventVoteCasted      = "vote.casted"
	EventElectionStopped = "election.stopped"
	EventChannel         = "fabvote:events"
)

type InvocationKind string

const (
	InvocationEvaluate InvocationKind = "evaluate"
	InvocationSubmit   InvocationKind = "submit"
)

// SensitiveArgs maps a transaction to the positions of arguments that must
// never reach logs or the transaction log.
var SensitiveArgs = map[string][]int{
	TxRegisterUser: {3},
	TxLoginUser:    {1},
}

// Redact returns a copy of args with sensitive positions masked.
func Redact(transaction string, args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for _, i := range SensitiveArgs[transaction] {
		if i < len(out) {
			out[i] = "***"
		}
	}
	return out
}
