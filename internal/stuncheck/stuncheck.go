// Package stuncheck performs an out-of-band reachability check via
// STUN. It backs the doctor subcommand: ICMP probing can fail for
// privilege reasons while the network itself is fine, and a STUN
// binding distinguishes the two.
package stuncheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pion/stun/v3"
)

const (
	NATUnknown          = "unknown"
	NATSymmetric        = "symmetric"
	NATConeOrRestricted = "cone_or_restricted"
)

// Report is the outcome of querying the configured STUN servers.
type Report struct {
	PublicAddr string
	NATType    string
}

// Check queries each server for a public mapped address and classifies
// the NAT from the set of answers. At least one answer is required.
func Check(ctx context.Context, servers []string, timeout time.Duration) (Report, error) {
	if len(servers) == 0 {
		return Report{NATType: NATUnknown}, fmt.Errorf("no STUN servers configured")
	}

	addrs := make([]string, 0, len(servers))
	var lastErr error
	for _, server := range servers {
		addr, err := bind(ctx, server, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		addrs = append(addrs, addr)
	}

	if len(addrs) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("STUN binding failed")
		}
		return Report{NATType: NATUnknown}, lastErr
	}

	return Report{PublicAddr: addrs[0], NATType: classify(addrs)}, nil
}

// classify infers NAT type by comparing mapped addresses across servers.
func classify(addrs []string) string {
	if len(addrs) < 2 {
		return NATUnknown
	}
	for _, addr := range addrs[1:] {
		if addr != addrs[0] {
			return NATSymmetric
		}
	}
	return NATConeOrRestricted
}

func bind(ctx context.Context, server string, timeout time.Duration) (string, error) {
	uriStr := strings.TrimSpace(server)
	if uriStr == "" {
		return "", fmt.Errorf("empty STUN server")
	}
	if !strings.HasPrefix(uriStr, "stun:") {
		uriStr = "stun:" + uriStr
	}

	uri, err := stun.ParseURI(uriStr)
	if err != nil {
		return "", err
	}

	client, err := stun.DialURI(uri, &stun.DialConfig{})
	if err != nil {
		return "", err
	}
	defer client.Close()

	msg := stun.MustBuild(stun.TransactionID, stun.BindingRequest)
	result := make(chan stun.XORMappedAddress, 1)
	fail := make(chan error, 1)

	go func() {
		var addr stun.XORMappedAddress
		err := client.Do(msg, func(res stun.Event) {
			if res.Error != nil {
				fail <- res.Error
				return
			}
			if err := addr.GetFrom(res.Message); err != nil {
				fail <- err
				return
			}
			result <- addr
		})
		if err != nil {
			fail <- err
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case addr := <-result:
		return addr.String(), nil
	case err := <-fail:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
