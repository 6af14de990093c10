package processors

import (
	"strings"
	"time"

	"github.com/launchdarkly/ccache"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/exp/slices"

	"github.com/analyticskit/go-analytics/model"
)

const (
	propertyRulesCacheSize = 500
	propertyRulesCacheTTL  = time.Hour
)

// ModeSource returns the current privacy mode.
type ModeSource interface {
	CurrentMode() model.PrivacyMode
}

// Privacy applies the current privacy mode to a batch: events the mode does not allow are dropped,
// properties it does not allow are removed, and the mode name and consent flag are added.
//
// Modes are immutable and identified by name, so the property rules resolved for each mode and
// event name are cached.
type Privacy struct {
	modes          ModeSource
	suppressOptOut bool
	loggers        ldlog.Loggers
	propertyRules  *ccache.Cache
}

// propertyRules are the property keys that apply to one event name.
type propertyRules struct {
	allowed   []string
	forbidden []string
}

// NewPrivacy creates a Privacy processor. If suppressOptOut is true, nothing is sent in the
// opt-out mode.
func NewPrivacy(modes ModeSource, suppressOptOut bool, loggers ldlog.Loggers) *Privacy {
	return &Privacy{
		modes:          modes,
		suppressOptOut: suppressOptOut,
		loggers:        loggers,
		propertyRules:  ccache.New(ccache.Configure().MaxSize(propertyRulesCacheSize)),
	}
}

// Close stops the cache worker.
func (p *Privacy) Close() {
	p.propertyRules.Stop()
}

func (p *Privacy) Process(events []model.Event) []model.Event {
	mode := p.modes.CurrentMode()
	if mode.Name() == model.PrivacyModeOptOutName && p.suppressOptOut {
		p.loggers.Warn("Privacy: visitor opted out and events are suppressed in opt-out mode")
		return nil
	}
	allowedEvents := simplifyPatterns(mode.AllowedEventNames())
	if len(allowedEvents) == 0 {
		return nil
	}
	forbiddenEvents := simplifyPatterns(mode.ForbiddenEventNames())

	ret := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !matchesAny(allowedEvents, e.Name()) || matchesAny(forbiddenEvents, e.Name()) {
			continue
		}
		rules := p.rulesFor(mode, e.Name())
		b := model.NewEventBuilder(e.Name())
		for _, prop := range e.Properties() {
			if rules.keep(prop.Name()) {
				b.Properties(prop)
			}
		}
		b.Properties(
			model.NewProperty(model.VisitorPrivacyMode, model.String(mode.Name())),
			model.NewProperty(model.VisitorPrivacyConsent, model.Bool(mode.VisitorConsent())),
		)
		ret = append(ret, b.MustBuild())
	}
	return ret
}

func (p *Privacy) rulesFor(mode model.PrivacyMode, eventName string) *propertyRules {
	key := mode.Name() + "\x00" + eventName
	if item := p.propertyRules.Get(key); item != nil && !item.Expired() {
		if rules, ok := item.Value().(*propertyRules); ok {
			return rules
		}
	}
	rules := &propertyRules{}
	for _, pattern := range mode.EventPatterns() {
		if !model.WildcardMatches(pattern, eventName) {
			continue
		}
		rules.allowed = appendKeys(rules.allowed, mode.AllowedPropertyKeysFor(pattern))
		rules.forbidden = appendKeys(rules.forbidden, mode.ForbiddenPropertyKeysFor(pattern))
	}
	rules.allowed = simplifyPatterns(rules.allowed)
	rules.forbidden = simplifyPatterns(rules.forbidden)
	p.propertyRules.Set(key, rules, propertyRulesCacheTTL)
	return rules
}

func (r *propertyRules) keep(name model.PropertyName) bool {
	key := strings.ToLower(name.Key())
	if slices.Contains(r.forbidden, model.AnyPropertyName.Key()) {
		return false
	}
	return matchesAny(r.allowed, key) && !matchesAny(r.forbidden, key)
}

func appendKeys(to []string, names []model.PropertyName) []string {
	for _, n := range names {
		k := strings.ToLower(n.Key())
		if !slices.Contains(to, k) {
			to = append(to, k)
		}
	}
	return to
}

// simplifyPatterns reduces a pattern list containing "*" to just "*".
func simplifyPatterns(patterns []string) []string {
	if slices.Contains(patterns, "*") {
		return []string{"*"}
	}
	return patterns
}

func matchesAny(patterns []string, s string) bool {
	for _, pattern := range patterns {
		if model.WildcardMatches(pattern, s) {
			return true
		}
	}
	return false
}
