package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Fabric  Fabric  `yaml:"fabric"`
	Session Session `yaml:"session"`
}

type Server struct {
	Listen        string        `yaml:"listen"`
	AllowOrigin   string        `yaml:"allowOrigin"`
	PostgresDsn   string        `yaml:"postgresDsn"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
	QueryCacheTTL time.Duration `yaml:"queryCacheTTL"`
	EnableTrace   bool          `yaml:"enableTrace"`
	TraceEndpoint string        `yaml:"traceEndpoint"`
}

type Fabric struct {
	ConnectionProfile string        `yaml:"connectionProfile"`
	WalletPath        string        `yaml:"walletPath"`
	KeystorePath      string        `yaml:"keystorePath"`
	Org               string        `yaml:"org"`
	MSPID             string        `yaml:"mspID"`
	CAHost            string        `yaml:"caHost"`
	AdminID           string        `yaml:"adminID"`
	AdminSecret       string        `yaml:"adminSecret"`
	UserID            string        `yaml:"userID"`
	Affiliation       string        `yaml:"affiliation"`
	Channel           string        `yaml:"channel"`
	Chaincode         string        `yaml:"chaincode"`
	Discovery         bool          `yaml:"discovery"`
	AsLocalhost       bool          `yaml:"asLocalhost"` // peers reported by discovery are reached on localhost
	CommitTimeout     time.Duration `yaml:"commitTimeout"`
}

type Session struct {
	// Secret switches the user cookie from plain JSON to a signed token.
	Secret string `yaml:"secret"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:      ":3000",
			AllowOrigin: "http://localhost:3001",
		},
		Fabric: Fabric{
			ConnectionProfile: "connection-org1.yaml",
			WalletPath:        "wallet",
			KeystorePath:      "/tmp/state-store/keystore",
			Org:               "Org1",
			MSPID:             "Org1MSP",
			CAHost:            "ca.org1.example.com",
			AdminID:           "admin",
			AdminSecret:       "adminpw",
			UserID:            "appUser",
			Affiliation:       "org1.department1",
			Channel:           "mychannel",
			Chaincode:         "basic",
			Discovery:         true,
			AsLocalhost:       true,
			CommitTimeout:     30 * time.Second,
		},
	}
}

// Load reads path over the defaults. A missing file leaves the defaults in place.
func Load(path string) (Config, error) {

	config := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, errors.Wrap(err, "failed to open config")
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if config.Fabric.Channel == "" || config.Fabric.Chaincode == "" {
		return Config{}, errors.New("fabric.channel and fabric.chaincode are required")
	}

	return config, nil
}
