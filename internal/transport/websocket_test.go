package transport

import (
	"errors"
	"net/url"
	"testing"
)

func TestBuildURLQueryParams(t *testing.T) {
	got, err := BuildURL("wss://sync.example.com/v1/session", Params{
		SessionID:     "room.42",
		ParticipantID: "participant.a",
		Token:         "tok-123",
	})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := u.Query()
	if q.Get("sessionId") != "room.42" {
		t.Fatalf("sessionId = %q", q.Get("sessionId"))
	}
	if q.Get("participantId") != "participant.a" {
		t.Fatalf("participantId = %q", q.Get("participantId"))
	}
	if q.Get("token") != "tok-123" {
		t.Fatalf("token = %q", q.Get("token"))
	}
	if u.Path != "/v1/session" {
		t.Fatalf("path = %q", u.Path)
	}
}

func TestBuildURLOmitsEmptyToken(t *testing.T) {
	got, err := BuildURL("ws://localhost:8080/sync", Params{
		SessionID:     "s",
		ParticipantID: "p",
	})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	u, _ := url.Parse(got)
	if _, ok := u.Query()["token"]; ok {
		t.Fatalf("token should be omitted when empty: %s", got)
	}
}

func TestBuildURLPreservesExistingQuery(t *testing.T) {
	got, err := BuildURL("wss://sync.example.com/ws?v=2", Params{SessionID: "s", ParticipantID: "p"})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("v") != "2" {
		t.Fatalf("existing query lost: %s", got)
	}
}

func TestBuildURLRejectsBadEndpoints(t *testing.T) {
	cases := []struct {
		name     string
		endpoint string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"bad scheme", "ftp://example.com"},
		{"no host", "wss:///path"},
		{"garbage", "://"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildURL(tc.endpoint, Params{}); !errors.Is(err, ErrInvalidEndpoint) {
				t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
			}
		})
	}
}
