package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgenative/bill95/internal/version"
)

func TestRootCmd_RequiresObserviumConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--prev"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without --observium-config")
	}
	if !strings.Contains(err.Error(), "observium-config") {
		t.Errorf("error = %v, want mention of observium-config", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--observium-config", "config.php", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}

func TestRootCmd_Version(t *testing.T) {
	version.Version = "2.1.0"
	version.Commit = "abc1234"
	version.Date = "2024-03-01"
	t.Cleanup(version.Reset)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "bill95 2.1.0 (commit: abc1234") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--observium-config", filepath.Join(t.TempDir(), "nope.php")})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "failed to load configuration") {
		t.Fatalf("Execute() error = %v, want configuration error", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRootCmd_InvalidEmail(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.php")
	content := `<?php
$config['db_host'] = 'localhost';
$config['db_user'] = 'observium';
$config['db_pass'] = 'secret';
$config['db_name'] = 'observium';
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--observium-config", path, "--email", "not-an-address"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid email address") {
		t.Fatalf("Execute() error = %v, want invalid email", err)
	}
}
