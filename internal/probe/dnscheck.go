package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNSClass summarises why a host does or does not resolve.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSServfail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type DNSStatus struct {
	Host          string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         DNSClass
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver used for diagnostics.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DiagnoseDNS classifies the DNS state of a site's host. It is used to
// annotate sites that failed every probe attempt.
func DiagnoseDNS(ctx context.Context, r Resolver, target string) DNSStatus {
	s := DNSStatus{Host: extractHost(target)}
	if s.Host == "" {
		s.Class = DNSInvalidName
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Host)
	if err == nil && len(ips) > 0 {
		s.IPs = ips
		s.Class = DNSResolves
	} else if err != nil {
		var de *net.DNSError
		s.ResolverError = err.Error()
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServfail
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Host); err == nil && !strings.EqualFold(cname, s.Host+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	// NS lives on the registrable domain, not necessarily on the host.
	if ns, err := r.LookupNS(ctx, registrableDomain(target)); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		if s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	if s.Class == "" {
		switch {
		case len(s.IPs) > 0:
			s.Class = DNSResolves
		case len(s.Nameservers) > 0:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServfail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}
