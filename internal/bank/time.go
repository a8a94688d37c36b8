package bank

import "time"

func defaultNow() uint64 {
	return uint64(time.Now().Unix())
}
