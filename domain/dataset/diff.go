package dataset

import "reflect"

// Diff returns the minimal sub-mapping of cur that differs from prev: a deep
// structural diff, not a line diff. Keys present in prev but absent from cur
// are emitted as explicit nulls so Merge can drop them again. Identical
// headers yield an empty mapping.
func Diff(prev, cur map[string]any) map[string]any {
	out := map[string]any{}
	for k, cv := range cur {
		pv, existed := prev[k]
		if !existed {
			out[k] = cv
			continue
		}
		pm, pok := pv.(map[string]any)
		cm, cok := cv.(map[string]any)
		if pok && cok {
			if sub := Diff(pm, cm); len(sub) > 0 {
				out[k] = sub
			}
			continue
		}
		if !reflect.DeepEqual(pv, cv) {
			out[k] = cv
		}
	}
	for k := range prev {
		if _, still := cur[k]; !still {
			out[k] = nil
		}
	}
	return out
}

// Merge deep-merges a delta onto a base header, returning a fresh mapping.
// Null delta values delete the key; nested mappings merge recursively;
// everything else replaces.
func Merge(base, delta map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, dv := range delta {
		if dv == nil {
			delete(out, k)
			continue
		}
		dm, dok := dv.(map[string]any)
		bm, bok := out[k].(map[string]any)
		if dok && bok {
			out[k] = Merge(bm, dm)
			continue
		}
		out[k] = dv
	}
	return out
}
