package inputs

import (
	"regexp"
	"strings"
)

// RetentionGroupName is the capture group the regex must declare when keep-latest-releases is enabled.
const RetentionGroupName = "group"

// NameCheck reports whether a release name passes a single filter.
type NameCheck func(name string) bool

func acceptAllNames(string) bool {
	return true
}

// RetentionGroups is an insertion-ordered set of group keys seen during one run.
//
// The first key recorded for a group belongs to the most recent release only when
// releases are presented newest first.
type RetentionGroups struct {
	orderedKeys []string
	seenKeys    map[string]struct{}
}

// NewRetentionGroups constructs an empty set.
func NewRetentionGroups() *RetentionGroups {
	return &RetentionGroups{seenKeys: map[string]struct{}{}}
}

// CheckAndRecord records the key and reports whether this is its first occurrence.
func (groups *RetentionGroups) CheckAndRecord(key string) bool {
	if _, seen := groups.seenKeys[key]; seen {
		return false
	}
	groups.seenKeys[key] = struct{}{}
	groups.orderedKeys = append(groups.orderedKeys, key)
	return true
}

// Keys returns the recorded keys in first-seen order.
func (groups *RetentionGroups) Keys() []string {
	keys := make([]string, len(groups.orderedKeys))
	copy(keys, groups.orderedKeys)
	return keys
}

// Len reports the number of distinct keys recorded.
func (groups *RetentionGroups) Len() int {
	return len(groups.orderedKeys)
}

// NamePredicate combines independent name checks with a short-circuit logical AND.
type NamePredicate struct {
	checks    []NameCheck
	retention *RetentionGroups
}

// NewNamePredicate composes prefix, regex and group retention checks. Absent filters accept every name.
// keepLatest requires a pattern declaring the RetentionGroupName capture; Resolve enforces this.
func NewNamePredicate(prefix string, pattern *regexp.Regexp, keepLatest bool) *NamePredicate {
	predicate := &NamePredicate{}
	predicate.checks = []NameCheck{
		prefixCheck(prefix),
		patternCheck(pattern),
	}
	if keepLatest && pattern != nil {
		predicate.retention = NewRetentionGroups()
		predicate.checks = append(predicate.checks, retentionCheck(pattern, predicate.retention))
	} else {
		predicate.checks = append(predicate.checks, acceptAllNames)
	}
	return predicate
}

// Check reports whether the release name is eligible for deletion. Group retention
// state advances only for names that pass the prefix and regex checks.
func (predicate *NamePredicate) Check(name string) bool {
	if predicate == nil {
		return true
	}
	for _, check := range predicate.checks {
		if !check(name) {
			return false
		}
	}
	return true
}

// RetainedGroups lists the groups whose newest release was kept, in first-seen order.
func (predicate *NamePredicate) RetainedGroups() []string {
	if predicate == nil || predicate.retention == nil {
		return nil
	}
	return predicate.retention.Keys()
}

func prefixCheck(prefix string) NameCheck {
	if len(prefix) == 0 {
		return acceptAllNames
	}
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}

func patternCheck(pattern *regexp.Regexp) NameCheck {
	if pattern == nil {
		return acceptAllNames
	}
	return pattern.MatchString
}

func retentionCheck(pattern *regexp.Regexp, groups *RetentionGroups) NameCheck {
	groupIndex := pattern.SubexpIndex(RetentionGroupName)
	return func(name string) bool {
		submatches := pattern.FindStringSubmatch(name)
		if submatches == nil || groupIndex < 0 {
			return false
		}
		// the first release seen for a group is the newest one and is kept
		return !groups.CheckAndRecord(submatches[groupIndex])
	}
}
