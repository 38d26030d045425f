// Package command parses chat messages into counter, tag and bot commands
// and runs them against the record collections.
package command

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/tallybot/internal/build"
	"github.com/joestump/tallybot/internal/metrics"
	"github.com/joestump/tallybot/internal/ratelimit"
	"github.com/joestump/tallybot/internal/store"
)

// Request is one inbound message.
type Request struct {
	ActorID  uint64
	Location store.Location
	Content  string
}

// Deps holds everything a Dispatcher needs.
type Deps struct {
	Prefix    string
	BotName   string
	SourceURL string
	Counters  *store.Collection[store.Counter]
	Tags      *store.Collection[store.Tag]
	Policy    store.Policy
	Limiter   *ratelimit.Limiter
	Logger    *zap.Logger
	Now       func() time.Time
	// Roll returns one die result in [1, sides]. Defaults to math/rand.
	Roll      func(sides uint32) uint32
}

type handlerFunc func(req Request, a *args) (string, error)

// Dispatcher routes messages to command handlers. It is safe for
// concurrent use.
type Dispatcher struct {
	prefix    string
	botName   string
	sourceURL string
	counters  *store.Collection[store.Counter]
	tags      *store.Collection[store.Tag]
	policy    store.Policy
	limiter   *ratelimit.Limiter
	logger    *zap.Logger
	now       func() time.Time
	rollDie   func(sides uint32) uint32
	started   time.Time

	handlers map[string]handlerFunc

	mu    sync.Mutex
	usage map[string]uint64
}

// New builds a Dispatcher from deps, defaulting any unset hooks.
func New(deps Deps) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Roll == nil {
		deps.Roll = randomRoll
	}
	d := &Dispatcher{
		prefix:    deps.Prefix,
		botName:   deps.BotName,
		sourceURL: deps.SourceURL,
		counters:  deps.Counters,
		tags:      deps.Tags,
		policy:    deps.Policy,
		limiter:   deps.Limiter,
		logger:    deps.Logger,
		now:       deps.Now,
		rollDie:   deps.Roll,
		started:   deps.Now(),
		usage:     make(map[string]uint64),
	}
	d.handlers = map[string]handlerFunc{
		"counter": d.counter,
		"tag":     d.tag,
		"stats":   d.stats,
		"ping":    d.ping,
		"roll":    d.roll,
		"help":    d.help,
	}
	return d
}

// Dispatch runs the command in req and returns the reply text. An empty
// reply with a nil error means nothing should be sent. Failures are
// *Error values, or ErrNotCommand when the message is not addressed to
// the bot.
func (d *Dispatcher) Dispatch(req Request) (string, error) {
	if !strings.HasPrefix(req.Content, d.prefix) {
		return "", ErrNotCommand
	}
	a := newArgs(strings.TrimPrefix(req.Content, d.prefix))
	name, ok := a.next()
	if !ok {
		return "", ErrNotCommand
	}
	name = strings.ToLower(name)
	h, ok := d.handlers[name]
	if !ok {
		metrics.CommandsTotal.WithLabelValues("unknown", string(CodeRejected)).Inc()
		return "", rejected("Unknown command %q.", name)
	}

	if ok, wait := d.limiter.Allow(req.ActorID); !ok {
		metrics.RateLimitedTotal.Inc()
		metrics.CommandsTotal.WithLabelValues(name, string(CodeRateLimited)).Inc()
		secs := int(math.Ceil(wait.Seconds()))
		return "", &Error{Code: CodeRateLimited, Message: fmt.Sprintf("Try this again in %d seconds.", secs)}
	}

	d.mu.Lock()
	d.usage[name]++
	d.mu.Unlock()

	log := d.logger.With(
		zap.String("command", name),
		zap.Uint64("actor", req.ActorID),
		zap.String("location", req.Location.Key()),
	)
	log.Info("got command")

	reply, err := h(req, a)
	status := "ok"
	if err != nil {
		var cerr *Error
		if !errors.As(err, &cerr) {
			cerr = &Error{Code: CodeInternal, Message: internalMessage, Err: err}
			err = cerr
		}
		status = string(cerr.Code)
		if cerr.Code == CodeInternal {
			log.Error("command failed", zap.Error(cerr.Err))
		} else {
			log.Debug("command rejected", zap.String("reason", cerr.Message))
		}
	}
	metrics.CommandsTotal.WithLabelValues(name, status).Inc()
	return reply, err
}

// Usage returns how many times each command has been run.
func (d *Dispatcher) Usage() map[string]uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.usage)
}

func (d *Dispatcher) stats(_ Request, _ *args) (string, error) {
	counters, err := d.counters.Len()
	if err != nil {
		return "", storeError("counter", err)
	}
	tags, err := d.tags.Len()
	if err != nil {
		return "", storeError("tag", err)
	}

	usage := d.Usage()
	runs := make([]string, 0, len(usage))
	for _, name := range slices.Sorted(maps.Keys(usage)) {
		runs = append(runs, fmt.Sprintf("%s %d", name, usage[name]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s stats\n", d.botName)
	fmt.Fprintf(&b, "Uptime: %s\n", FormatUptime(d.now().Sub(d.started)))
	fmt.Fprintf(&b, "Commands run: %s\n", strings.Join(runs, ", "))
	fmt.Fprintf(&b, "Counters: %d\n", counters)
	fmt.Fprintf(&b, "Tags: %d\n", tags)
	fmt.Fprintf(&b, "Version: %s\n", buildVersion())
	fmt.Fprintf(&b, "Source: %s", d.sourceURL)
	return b.String(), nil
}

// ping answers administrators only; everyone else is ignored.
func (d *Dispatcher) ping(req Request, _ *args) (string, error) {
	if !d.policy.IsAdmin(req.ActorID) {
		return "", nil
	}
	return "Pong", nil
}

func buildVersion() string {
	return build.Version + " (" + build.Commit + ")"
}

// FormatUptime renders d as "Wd Xh Ym Zs".
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dd %dh %dm %ds", secs/86400, secs%86400/3600, secs%3600/60, secs%60)
}
