// Package audit captures the host/IP pair stamped on every auth write.
package audit

import (
	"net"
	"net/http"
	"os"
	"strings"
)

// Origin is the audit context passed into write operations.
type Origin struct {
	HostName  string
	IPAddress string
}

type Config struct {
	NodeName string
}

// ConfigFromEnv reads NODE_NAME, falling back to the machine host name.
func ConfigFromEnv() Config {
	name := os.Getenv("NODE_NAME")
	if name == "" {
		name, _ = os.Hostname()
	}
	return Config{NodeName: name}
}

// Recorder builds an Origin for an inbound request.
type Recorder struct {
	nodeName string
}

func NewRecorder(cfg Config) *Recorder { return &Recorder{nodeName: cfg.NodeName} }

// FromRequest records the serving node as host name and the client address
// as IP.
func (r *Recorder) FromRequest(req *http.Request) Origin {
	return Origin{HostName: r.nodeName, IPAddress: ClientIP(req)}
}

// ClientIP prefers proxy headers and falls back to the socket peer.
func ClientIP(r *http.Request) string {
	var ip string
	if tcip := r.Header.Get("True-Client-IP"); tcip != "" {
		ip = tcip
	} else if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		ip = xrip
	} else if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip, _, _ = strings.Cut(xff, ",")
	}
	ip = strings.TrimSpace(ip)
	if ip == "" || net.ParseIP(ip) == nil {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && net.ParseIP(host) != nil {
			return host
		}
		return ""
	}
	return ip
}
