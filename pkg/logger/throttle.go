package logger

import (
	"sync"

	"golang.org/x/time/rate"
)

// warnPool caps repeated warn events per key so a hot render loop cannot
// flood the sink with the same complaint.
type warnPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func (p *warnPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	rps := p.rps
	if rps <= 0 {
		rps = 1
	}
	burst := p.burst
	if burst <= 0 {
		burst = 5
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = l
	return l
}

func (p *warnPool) Allow(key string) bool {
	return p.get(key).Allow()
}

var warnLimiters = &warnPool{}

// WarnThrottled logs like Warn but drops events beyond a per-key budget
// of one per second with a small burst.
func WarnThrottled(key, msg string, args ...any) {
	if Log == nil {
		return
	}
	if !warnLimiters.Allow(key) {
		return
	}
	Log.Warn(msg, args...)
}
