package domain

// Identity is an enrolled X.509 credential as kept in the wallet.
type Identity struct {
	Label       string
	MSPID       string
	Certificate string
	PrivateKey  string
}

type RegistrationRequest struct {
	Name        string
	Type        string
	Affiliation string
}

// BootstrapSpec names the identities that must exist before connecting.
type BootstrapSpec struct {
	MSPID       string
	AdminID     string
	AdminSecret string
	UserID      string
	Affiliation string
}
