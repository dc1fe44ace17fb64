package reconciler

// mergeRecords overlays local records onto the remote set keyed by id. On an
// id collision the local version always wins; local-only records are
// appended in their local order. Remote ordering is preserved otherwise, and
// the read-back after a push re-establishes display order anyway.
func mergeRecords(remote, local []SyncRecord) []SyncRecord {
	localByID := make(map[string]SyncRecord, len(local))
	for _, rec := range local {
		localByID[rec.ID] = rec
	}

	merged := make([]SyncRecord, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote)+len(local))
	for _, rec := range remote {
		if seen[rec.ID] {
			continue // remote sets can carry duplicate ids after partial upserts
		}
		seen[rec.ID] = true
		if overlay, ok := localByID[rec.ID]; ok {
			merged = append(merged, overlay)
		} else {
			merged = append(merged, rec)
		}
	}
	for _, rec := range local {
		if !seen[rec.ID] {
			seen[rec.ID] = true
			merged = append(merged, rec)
		}
	}
	return merged
}

// dropTombstoned removes records whose ids carry a delete marker.
func dropTombstoned(recs []SyncRecord, dead map[string]bool) []SyncRecord {
	if len(dead) == 0 {
		return recs
	}
	out := recs[:0]
	for _, rec := range recs {
		if !dead[rec.ID] {
			out = append(out, rec)
		}
	}
	return out
}
