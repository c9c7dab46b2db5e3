//go:build debug

package engine

import "github.com/leandrodaf/rtdriver/sdk/contracts"

func assertOpened(contracts.Logger) {
	panic("engine: Close called on a driver that is not open")
}
