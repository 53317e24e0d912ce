package printer

import (
	"context"
	"fmt"
	"time"

	"github.com/libp2p/zeroconf/v2"
)

// octoPrintService is the mDNS service type OctoPrint instances
// advertise on the local network.
const octoPrintService = "_octoprint._tcp"

// DiscoverPrinters browses mDNS for OctoPrint instances for up to
// timeout and returns whatever service entries were found by then. ctx
// cancellation stops the browse early.
func DiscoverPrinters(ctx context.Context, timeout time.Duration) ([]*zeroconf.ServiceEntry, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("printer: new mdns resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	var found []*zeroconf.ServiceEntry
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			found = append(found, e)
		}
	}()

	if err := resolver.Browse(browseCtx, octoPrintService, "local.", entries); err != nil {
		return nil, fmt.Errorf("printer: browse: %w", err)
	}
	<-browseCtx.Done()
	<-done
	return found, nil
}
