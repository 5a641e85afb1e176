// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/ning/internal/metrics"
)

type kind uint8

const (
	kindString kind = iota + 1
	kindHash
	kindSet
	kindList
)

// value is the typed payload held under one key by the memory and Badger
// backends. Badger persists it as JSON.
type value struct {
	Kind kind              `json:"k"`
	Str  string            `json:"s,omitempty"`
	Hash map[string]string `json:"h,omitempty"`
	Set  map[string]bool   `json:"m,omitempty"`
	List []string          `json:"l,omitempty"`
}

// expect returns ErrWrongType unless v is nil or of kind k.
func expect(v *value, k kind) error {
	if v != nil && v.Kind != k {
		return ErrWrongType
	}
	return nil
}

func stringValue(s string) *value {
	return &value{Kind: kindString, Str: s}
}

func incrValue(v *value, n int64) (*value, int64, error) {
	if err := expect(v, kindString); err != nil {
		return nil, 0, err
	}
	var cur int64
	if v != nil {
		parsed, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return nil, 0, ErrNotInteger
		}
		cur = parsed
	}
	cur += n
	return stringValue(strconv.FormatInt(cur, 10)), cur, nil
}

func hsetValue(v *value, fields map[string]string) (*value, error) {
	if err := expect(v, kindHash); err != nil {
		return nil, err
	}
	out := &value{Kind: kindHash, Hash: make(map[string]string, len(fields))}
	if v != nil {
		for f, val := range v.Hash {
			out.Hash[f] = val
		}
	}
	for f, val := range fields {
		out.Hash[f] = val
	}
	return out, nil
}

func copyHash(v *value) map[string]string {
	out := make(map[string]string)
	if v != nil {
		for f, val := range v.Hash {
			out[f] = val
		}
	}
	return out
}

func copySet(v *value) map[string]bool {
	out := make(map[string]bool)
	if v != nil {
		for m := range v.Set {
			out[m] = true
		}
	}
	return out
}

// saddValue returns the new value and how many members were added.
func saddValue(v *value, members []string) (*value, int64, error) {
	if err := expect(v, kindSet); err != nil {
		return nil, 0, err
	}
	set := copySet(v)
	var added int64
	for _, m := range members {
		if !set[m] {
			set[m] = true
			added++
		}
	}
	return &value{Kind: kindSet, Set: set}, added, nil
}

// sremValue returns nil when the set becomes empty.
func sremValue(v *value, members []string) (*value, int64, error) {
	if err := expect(v, kindSet); err != nil {
		return nil, 0, err
	}
	if v == nil {
		return nil, 0, nil
	}
	set := copySet(v)
	var removed int64
	for _, m := range members {
		if set[m] {
			delete(set, m)
			removed++
		}
	}
	if len(set) == 0 {
		return nil, removed, nil
	}
	return &value{Kind: kindSet, Set: set}, removed, nil
}

func toggleValue(v *value, member string) (*value, bool, int64, error) {
	if err := expect(v, kindSet); err != nil {
		return nil, false, 0, err
	}
	set := copySet(v)
	added := !set[member]
	if added {
		set[member] = true
	} else {
		delete(set, member)
	}
	if len(set) == 0 {
		return nil, added, 0, nil
	}
	return &value{Kind: kindSet, Set: set}, added, int64(len(set)), nil
}

func setMembers(v *value) []string {
	if v == nil {
		return []string{}
	}
	out := make([]string, 0, len(v.Set))
	for m := range v.Set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func rpushValue(v *value, values []string) (*value, int64, error) {
	if err := expect(v, kindList); err != nil {
		return nil, 0, err
	}
	var list []string
	if v != nil {
		list = make([]string, len(v.List), len(v.List)+len(values))
		copy(list, v.List)
	}
	list = append(list, values...)
	return &value{Kind: kindList, List: list}, int64(len(list)), nil
}

// lrange applies Redis LRANGE index rules to list.
func lrange(list []string, start, stop int64) []string {
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return []string{}
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out
}

// observe records a store call. ErrNil counts as a miss, not a failure.
func observe(backend, op string, start time.Time, err error) {
	miss := err == ErrNil
	if miss {
		err = nil
	}
	metrics.RecordStoreOp(backend, op, time.Since(start), err, miss)
}

func wrapOp(op string, err error) error {
	if err == nil || err == ErrNil {
		return err
	}
	return fmt.Errorf("kvstore %s: %w", op, err)
}
