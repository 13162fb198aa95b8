package rtcache

const tracerName = "github.com/unkn0wn-root/rtcache"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func unitCost(string, []byte) int64 { return 1 }
