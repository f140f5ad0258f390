package fixture

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// stampLayout is the fixed-width wall-clock component appended to generated identifiers.
const stampLayout = "150405"

// Namer derives identifiers for records created in the application under test.
// Records are never deleted, so names carry a time component to avoid clashing with
// data left behind by earlier runs.
//
// Identifiers have whole-second resolution: two calls with the same prefix within the
// same second return the same value unless the collision guard is enabled.
type Namer struct {
	now   func() time.Time
	guard bool

	mu   sync.Mutex
	last map[string]stampUse
}

type stampUse struct {
	stamp string
	count int
}

type NamerOption func(*Namer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) NamerOption {
	return func(n *Namer) {
		n.now = now
	}
}

// WithCollisionGuard makes the namer disambiguate identifiers that would repeat
// within the same second by folding a per-process counter into the suffix.
func WithCollisionGuard() NamerOption {
	return func(n *Namer) {
		n.guard = true
	}
}

func NewNamer(opts ...NamerOption) *Namer {
	n := &Namer{
		now:  time.Now,
		last: map[string]stampUse{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// UniqueName returns prefix + "_" + HHMMSS.
func (n *Namer) UniqueName(prefix string) string {
	stamp := n.now().Format(stampLayout)
	name := prefix + "_" + stamp
	if k := n.repeat("name:"+prefix, stamp); k > 0 {
		name = fmt.Sprintf("%s_%d", name, k)
	}
	return name
}

// PhoneSuffix returns phonePrefix followed by the last four digits of HHMMSS.
// With the collision guard, repeats within one second get the repeat count appended,
// so they can never equal the number generated in a later second.
func (n *Namer) PhoneSuffix(phonePrefix string) string {
	stamp := n.now().Format(stampLayout)
	phone := phonePrefix + stamp[len(stamp)-4:]
	if k := n.repeat("phone:"+phonePrefix, stamp); k > 0 {
		phone += strconv.Itoa(k)
	}
	return phone
}

// repeat returns how many times key was already used within stamp, or 0 when the guard is off.
func (n *Namer) repeat(key, stamp string) int {
	if !n.guard {
		return 0
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	use := n.last[key]
	if use.stamp != stamp {
		n.last[key] = stampUse{stamp: stamp}
		return 0
	}
	use.count++
	n.last[key] = use
	return use.count
}

var defaultNamer = NewNamer()

// UniqueName derives a name from prefix and the current wall-clock second.
func UniqueName(prefix string) string {
	return defaultNamer.UniqueName(prefix)
}

// PhoneSuffix derives a phone number from phonePrefix and the current wall-clock second.
func PhoneSuffix(phonePrefix string) string {
	return defaultNamer.PhoneSuffix(phonePrefix)
}
