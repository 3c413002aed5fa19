package config

import (
	"runtime"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		name    string
		flag    int
		env     string
		want    int
		wantErr bool
	}{
		{name: "flag wins", flag: 3, env: "7", want: 3},
		{name: "env", env: "7", want: 7},
		{name: "env with spaces", env: " 2 ", want: 2},
		{name: "default", want: runtime.GOMAXPROCS(0)},
		{name: "negative flag", flag: -1, wantErr: true},
		{name: "bad env", env: "many", wantErr: true},
		{name: "zero env", env: "0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvWorkers, tt.env)
			got, err := ResolveWorkers(tt.flag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveWorkers: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(EnvDB, "")
	if got := ResolveDBPath(""); got != DefaultDBPath {
		t.Errorf("default: got %q", got)
	}
	t.Setenv(EnvDB, "/tmp/evidence.duckdb")
	if got := ResolveDBPath(""); got != "/tmp/evidence.duckdb" {
		t.Errorf("env: got %q", got)
	}
	if got := ResolveDBPath("flag.duckdb"); got != "flag.duckdb" {
		t.Errorf("flag: got %q", got)
	}
}
