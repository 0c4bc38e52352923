package http

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNewServer_AppliesDefaults(t *testing.T) {
	s := NewServer(ServerConfig{}, http.NewServeMux(), nil)

	if s.config.Port != 8080 {
		t.Errorf("port = %d", s.config.Port)
	}
	if s.config.ReadTimeout != 15*time.Second {
		t.Errorf("read timeout = %s", s.config.ReadTimeout)
	}
	if s.config.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown timeout = %s", s.config.ShutdownTimeout)
	}
	if s.srv.Addr != "0.0.0.0:8080" {
		t.Errorf("addr = %q", s.srv.Addr)
	}
}

func TestNewServer_KeepsExplicitConfig(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9090, ReadTimeout: time.Second}
	s := NewServer(cfg, http.NewServeMux(), nil)

	if s.srv.Addr != "127.0.0.1:9090" {
		t.Errorf("addr = %q", s.srv.Addr)
	}
	if s.srv.ReadTimeout != time.Second {
		t.Errorf("read timeout = %s", s.srv.ReadTimeout)
	}
}

func TestServer_HandlerPassthrough(t *testing.T) {
	mux := http.NewServeMux()
	s := NewServer(ServerConfig{}, mux, nil)

	if s.Handler() == nil {
		t.Fatal("handler is nil")
	}
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := NewServer(ServerConfig{}, http.NewServeMux(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
