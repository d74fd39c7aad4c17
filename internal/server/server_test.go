package server

import "testing"

func TestListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "loopback host port", raw: "127.0.0.1:7380", want: "127.0.0.1:7380"},
		{name: "localhost", raw: "localhost:7380", want: "localhost:7380"},
		{name: "ipv6 loopback", raw: "[::1]:7380", want: "[::1]:7380"},
		{name: "http url", raw: "http://127.0.0.1:7380", want: "127.0.0.1:7380"},
		{name: "bare port", raw: ":7380", want: ":7380"},
		{name: "remote host refused", raw: "0.0.0.0:7380", wantErr: true},
		{name: "remote url refused", raw: "http://example.com:80", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ListenAddr(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ListenAddr(%q) = %q, want error", tc.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListenAddr(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ListenAddr(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestListenAddrAllowRemote(t *testing.T) {
	t.Setenv(allowRemoteEnvKey, "true")

	got, err := ListenAddr("0.0.0.0:7380")
	if err != nil {
		t.Fatalf("ListenAddr with %s=true: %v", allowRemoteEnvKey, err)
	}
	if got != "0.0.0.0:7380" {
		t.Fatalf("got %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "GET", "/health", nil)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}
