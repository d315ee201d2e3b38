package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNBuildsURL(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "svc",
		Password: "pw",
		Name:     "users",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensure dsn: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://") {
		t.Fatalf("expected postgres scheme got %s", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "localhost:5432") {
		t.Fatalf("expected host in dsn got %s", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=disable") {
		t.Fatalf("expected sslmode in dsn got %s", cfg.DSN)
	}
}

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://explicit/users"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensure dsn: %v", err)
	}
	if cfg.DSN != "postgres://explicit/users" {
		t.Fatalf("explicit dsn must be preserved, got %s", cfg.DSN)
	}
}

func TestCognitoValidate(t *testing.T) {
	if err := (CognitoConfig{DevSecret: "secret"}).validate(); err != nil {
		t.Fatalf("dev secret should satisfy validation: %v", err)
	}
	if err := (CognitoConfig{Region: "us-east-1", UserPoolID: "pool"}).validate(); err != nil {
		t.Fatalf("pool config should satisfy validation: %v", err)
	}
	if err := (CognitoConfig{}).validate(); err == nil {
		t.Fatal("expected error without pool or dev secret")
	}
}

func TestCognitoURLs(t *testing.T) {
	cfg := CognitoConfig{Region: "eu-west-1", UserPoolID: "eu-west-1_abc"}
	issuer := cfg.IssuerURL()
	if issuer != "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_abc" {
		t.Fatalf("unexpected issuer %s", issuer)
	}
	if !strings.HasSuffix(cfg.JWKSURL(), "/.well-known/jwks.json") {
		t.Fatalf("unexpected jwks url %s", cfg.JWKSURL())
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "dev"}).IsDev() {
		t.Fatal("expected dev")
	}
	if !(AppConfig{Env: "PROD"}).IsProd() {
		t.Fatal("expected prod, case insensitive")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging is not prod")
	}
}
