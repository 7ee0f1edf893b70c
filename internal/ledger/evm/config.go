package evm

import (
	"fmt"
	"net/url"
)

type Config struct {
	RPCURL  string
	ChainID uint64 // zero accepts any chain
}

// String returns a custom string representation.
//
// This is important so we don't log credentials embedded in the RPC URL.
func (c Config) String() string {
	return fmt.Sprintf("{RPCURL:%v ChainID:%v}", maskURL(c.RPCURL), c.ChainID)
}

func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || len(u.Host) == 0 {
		return "****"
	}

	masked := u.Scheme + "://" + u.Host
	if len(u.Path) > 1 || u.User != nil {
		masked += "/****"
	}
	return masked
}
