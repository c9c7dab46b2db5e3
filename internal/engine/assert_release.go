//go:build !debug

package engine

import "github.com/leandrodaf/rtdriver/sdk/contracts"

func assertOpened(log contracts.Logger) {
	log.Warn("Close called on a driver that is not open")
}
