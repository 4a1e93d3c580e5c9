// Package cache remembers the results of selects. An entry is keyed by table and where
// clause, and also carries a fingerprint of the records it was computed from, so a stale
// entry is never returned even if a write forgot to invalidate the table.
package cache

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/record"
)

type entry struct {
	fingerprint uint64
	recs        []record.Record
}

type SelectCache struct {
	tables map[string]map[string]entry
	hits   int
	misses int
}

func New() *SelectCache {
	return &SelectCache{
		tables: map[string]map[string]entry{},
	}
}

// Fingerprint hashes the JSON encoding of recs. It reports false if recs can not be
// encoded.
func Fingerprint(recs []record.Record) (uint64, bool) {
	b, err := json.Marshal(recs)
	if err != nil {
		return 0, false
	}
	return xxh3.Hash(b), true
}

func copyRecords(recs []record.Record) []record.Record {
	cpy := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		cpy = append(cpy, r.Copy())
	}
	return cpy
}

// Select returns the records of tbl matching where, from the cache if recs has not
// changed since the entry was made.
func (sc *SelectCache) Select(tbl string, recs []record.Record,
	where engine.Clause) []record.Record {

	fp, ok := Fingerprint(recs)
	if !ok {
		return engine.Select(recs, where)
	}

	key := where.String()
	entries, ok := sc.tables[tbl]
	if ok {
		if e, ok := entries[key]; ok && e.fingerprint == fp {
			sc.hits += 1
			log.WithFields(log.Fields{"table": tbl, "where": key}).Debug("cache: hit")
			return copyRecords(e.recs)
		}
	} else {
		entries = map[string]entry{}
		sc.tables[tbl] = entries
	}

	sc.misses += 1
	sel := engine.Select(recs, where)
	entries[key] = entry{
		fingerprint: fp,
		recs:        copyRecords(sel),
	}
	return sel
}

// Invalidate forgets every entry for tbl.
func (sc *SelectCache) Invalidate(tbl string) {
	if _, ok := sc.tables[tbl]; ok {
		log.WithField("table", tbl).Debug("cache: invalidate")
		delete(sc.tables, tbl)
	}
}

func (sc *SelectCache) Len() int {
	var n int
	for _, entries := range sc.tables {
		n += len(entries)
	}
	return n
}

func (sc *SelectCache) Stats() (int, int) {
	return sc.hits, sc.misses
}
