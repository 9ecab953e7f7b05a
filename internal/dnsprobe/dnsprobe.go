// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package dnsprobe records advisory resolution data for the raw audit
// summary. Results are informational only; acquisition control flow is
// decided by the HTTPS→HTTP fallback, never by this probe.
package dnsprobe

import (
	"context"
	"net"
	"sort"
	"time"

	"codeberg.org/miekg/dns"
	"codeberg.org/miekg/dns/dnsutil"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

var defaultResolvers = []string{"1.1.1.1", "8.8.8.8"}

const queryTimeout = 2 * time.Second

type Prober struct {
	resolvers []string
	timeout   time.Duration
}

func New() *Prober {
	return &Prober{resolvers: defaultResolvers, timeout: queryTimeout}
}

// Resolve looks up A and AAAA records for the domain across the
// configured resolvers, first answer wins.
func (p *Prober) Resolve(ctx context.Context, domain string) *snapshot.ResolveInfo {
	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addrs = append(addrs, p.query(ctx, domain, qtype)...)
	}
	sort.Strings(addrs)
	return &snapshot.ResolveInfo{
		Resolved:  len(addrs) > 0,
		Addresses: addrs,
	}
}

func (p *Prober) query(ctx context.Context, domain string, qtype uint16) []string {
	msg := dns.NewMsg(dnsutil.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	client := &dns.Client{
		Transport: &dns.Transport{
			Dialer:       &net.Dialer{Timeout: p.timeout},
			ReadTimeout:  p.timeout,
			WriteTimeout: p.timeout,
		},
	}

	for _, resolver := range p.resolvers {
		r, _, err := client.Exchange(ctx, msg, "udp", net.JoinHostPort(resolver, "53"))
		if err != nil || r == nil || r.Rcode != dns.RcodeSuccess {
			continue
		}
		var out []string
		for _, rr := range r.Answer {
			switch v := rr.(type) {
			case *dns.A:
				out = append(out, v.A.Addr.String())
			case *dns.AAAA:
				out = append(out, v.AAAA.Addr.String())
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
