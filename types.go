package fabvote

import (
	"time"
)

// Ledger records as the e-voting chaincode serialises them. The chaincode
// marshals its structs without json tags, so keys are the Go field names.

type User struct {
	ID       string `json:"ID"`
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
	Doctype  string `json:"Doctype"`
}

type Election struct {
	ID      string `json:"ID"`
	Name    string `json:"Name"`
	Doctype string `json:"Doctype"`
	Ended   bool   `json:"Ended"`
}

type Candidate struct {
	ID         string `json:"ID"`
	Name       string `json:"Name"`
	ElectionID string `json:"ElectionID"`
	Marka      string `json:"Marka"`
	Doctype    string `json:"Doctype"`
}

type ElectionResult struct {
	ElectionID  string `json:"ElectionID"`
	CandidateID string `json:"CandidateID"`
	Marka       string `json:"Marka"`
	VoteCount   int64  `json:"VoteCount"`
}

type Quote struct {
	Value string `json:"Value"`
}

// request bodies

type RegisterUserRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginUserRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type ElectionIDRequest struct {
	ElectionID string `json:"electionid" form:"electionid"`
}

type ShowAllElectionsRequest struct {
	Doctype string `json:"doctype" form:"doctype"`
}

type CreateElectionRequest struct {
	ID   string `json:"id" form:"id"`
	Name string `json:"name" form:"name"`
}

type AddCandidateRequest struct {
	ID         string `json:"id" form:"id"`
	Name       string `json:"name" form:"name"`
	Marka      string `json:"marka" form:"marka"`
	ElectionID string `json:"electionid" form:"electionid"`
}

type VoteCastingRequest struct {
	ElectionID  string `json:"electionid" form:"electionid"`
	CandidateID string `json:"candidateid" form:"candidateid"`
}

type StopElectionRequest struct {
	ID string `json:"id" form:"id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Event is published on the event bus after a submission commits.
type Event struct {
	Type        string    `json:"type"`
	Transaction string    `json:"transaction"`
	ElectionID  string    `json:"electionID,omitempty"`
	SubjectID   string    `json:"subjectID,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type TransactionLog struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Transaction string    `json:"transaction"`
	Args        []string  `json:"args"`
	Success     bool      `json:"success"`
	ErrorKind   string    `json:"errorKind,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMs  int64     `json:"durationMs"`
	CDate       time.Time `json:"cdate"`
}
