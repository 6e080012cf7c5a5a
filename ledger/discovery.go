package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitfsorg/certledger-go/identity"
	"github.com/miekg/dns"
)

const (
	// defaultUpstream is the default recursive resolver for discovery queries.
	defaultUpstream = "8.8.8.8:53"

	// defaultDNSTimeout bounds a single discovery query.
	defaultDNSTimeout = 10 * time.Second

	edns0BufSize = 4096

	// canisterRecordPrefix is prepended to the domain for TXT discovery.
	canisterRecordPrefix = "_canister-id."
)

// TXTResolver looks up TXT records.
type TXTResolver interface {
	LookupTXT(name string) ([]string, error)
}

// DNSResolver queries an upstream recursive resolver with miekg/dns.
// With RequireDNSSEC set, answers without the AD flag are rejected.
type DNSResolver struct {
	Upstream      string
	RequireDNSSEC bool
	Timeout       time.Duration
}

// Compile-time interface check.
var _ TXTResolver = (*DNSResolver)(nil)

// NewDNSResolver creates a resolver. An empty upstream defaults to 8.8.8.8:53.
func NewDNSResolver(upstream string, requireDNSSEC bool) *DNSResolver {
	if upstream == "" {
		upstream = defaultUpstream
	}
	return &DNSResolver{Upstream: upstream, RequireDNSSEC: requireDNSSEC, Timeout: defaultDNSTimeout}
}

func (r *DNSResolver) query(name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, r.RequireDNSSEC)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultDNSTimeout
	}
	client := &dns.Client{Timeout: timeout}
	resp, _, err := client.Exchange(msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s %s: %w",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], err)
	}

	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("%w: query %s %s: rcode %s",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}

	if r.RequireDNSSEC && !resp.AuthenticatedData {
		return nil, fmt.Errorf("%w: AD flag not set for %s %s",
			ErrDNSSECValidationFailed, name, dns.TypeToString[qtype])
	}
	return resp, nil
}

// LookupTXT returns the TXT records for name, joining split strings.
func (r *DNSResolver) LookupTXT(name string) ([]string, error) {
	resp, err := r.query(name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	var txts []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			txts = append(txts, strings.Join(txt.Txt, ""))
		}
	}
	if len(txts) == 0 {
		return nil, fmt.Errorf("%w: no TXT records for %s", ErrDNSLookupFailed, name)
	}
	return txts, nil
}

// ResolveCanisterID discovers the canister ID published for domain in a
// _canister-id.<domain> TXT record. The first record that parses as a
// principal wins.
func ResolveCanisterID(domain string, resolver TXTResolver) (string, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return "", fmt.Errorf("%w: empty domain", ErrDNSLookupFailed)
	}
	name := canisterRecordPrefix + domain

	txts, err := resolver.LookupTXT(name)
	if err != nil {
		return "", err
	}
	for _, txt := range txts {
		id := strings.TrimSpace(txt)
		if _, err := identity.ParsePrincipal(id); err == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no valid canister ID in TXT records for %s", ErrMissingCanisterID, name)
}
