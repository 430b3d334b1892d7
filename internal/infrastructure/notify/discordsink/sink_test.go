package discordsink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
)

type recorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.bodies = append(r.bodies, string(body))
	r.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (r *recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return ""
	}
	return r.bodies[len(r.bodies)-1]
}

func TestDiscordSink_PostsMatchEmbed(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	reg := notify.NewRegistry()
	reg.Register(&Factory{})

	specs := []notify.Spec{
		{Type: TypeName, Description: "results", Config: notify.Config{"url": srv.URL}},
	}
	sinks, err := reg.Build(specs)
	if err != nil {
		t.Fatalf("build notifiers: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name() != "results" {
		t.Fatalf("expected one sink named results, got %v", sinks)
	}

	res := actlog.Aggregate(map[string]actlog.ActorRecord{
		"Bob": {Name: "Bob", Job: "WHM", Ally: actlog.AllyFriendly, Metrics: actlog.Metrics{Damage: 500}},
	}, actlog.MatchInput{CallerID: "u1", CallerTeam: actlog.TwinAdders})

	ev := notify.MatchEvent{MatchID: "m-42", Result: res, Stored: 1}
	if err := notify.Fanout(sinks).Notify(context.Background(), ev); err != nil {
		t.Fatalf("notify: %v", err)
	}

	got := rec.Last()
	if !strings.Contains(got, "m-42") || !strings.Contains(got, "Bob") {
		t.Fatalf("expected embed for m-42 with Bob, got %s", got)
	}
}

func TestFactory_ValidateConfig(t *testing.T) {
	f := &Factory{}
	cases := map[string]notify.Config{
		"missing":  {},
		"relative": {"url": "/webhooks/1"},
		"scheme":   {"url": "ftp://discord.com/api/webhooks/1"},
	}
	for name, cfg := range cases {
		if err := f.ValidateConfig(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if err := f.ValidateConfig(notify.Config{"url": "https://discord.com/api/webhooks/1/abc"}); err != nil {
		t.Errorf("valid url rejected: %v", err)
	}
}

func TestRegisteredGlobally(t *testing.T) {
	if _, ok := notify.GlobalRegistry.GetTypeInfo(TypeName); !ok {
		t.Fatalf("%s not registered", TypeName)
	}
}
