package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.Server.Listen != ":3000" {
		t.Fatalf("expected :3000 got %s", conf.Server.Listen)
	}
	if conf.Fabric.Channel != "mychannel" || conf.Fabric.Chaincode != "basic" {
		t.Fatalf("unexpected fabric defaults %+v", conf.Fabric)
	}
	if conf.Server.AllowOrigin != "http://localhost:3001" {
		t.Fatalf("unexpected origin %s", conf.Server.AllowOrigin)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  listen: ":8080"
  queryCacheTTL: 5s
fabric:
  channel: votes
  userID: kiosk
session:
  secret: s3cret
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if conf.Server.Listen != ":8080" {
		t.Fatalf("expected :8080 got %s", conf.Server.Listen)
	}
	if conf.Server.QueryCacheTTL != 5*time.Second {
		t.Fatalf("expected 5s ttl got %s", conf.Server.QueryCacheTTL)
	}
	if conf.Fabric.Channel != "votes" || conf.Fabric.UserID != "kiosk" {
		t.Fatalf("overrides not applied %+v", conf.Fabric)
	}
	// untouched keys keep their defaults
	if conf.Fabric.Chaincode != "basic" || conf.Fabric.MSPID != "Org1MSP" {
		t.Fatalf("defaults lost %+v", conf.Fabric)
	}
	if conf.Session.Secret != "s3cret" {
		t.Fatalf("expected session secret")
	}
}

func TestLoadRejectsEmptyChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fabric:\n  channel: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty channel")
	}
}
