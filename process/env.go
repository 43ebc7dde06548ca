package process

import "os"

// splitKV splits "KEY=VALUE" into its parts. A pair with no '=' becomes
// (pair, ""), matching tinyproc::popen3's split_kv_ fallback.
func splitKV(kv string) (string, string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}

// mergeEnv replicates apply_child_env_'s last-value-wins semantics: the
// starting point is either the parent's environment or nothing
// (clearEnv), then each "KEY=VALUE" in overrides is applied in order,
// later entries winning over earlier ones with the same key. Entries
// with an empty key are ignored. The result preserves first-seen key
// order so environment block output is deterministic.
func mergeEnv(clearEnv bool, overrides []string) []string {
	merged := map[string]string{}
	order := make([]string, 0, len(overrides))

	add := func(key, val string) {
		if key == "" {
			return
		}
		if _, exists := merged[key]; !exists {
			order = append(order, key)
		}
		merged[key] = val
	}

	if !clearEnv {
		for _, kv := range os.Environ() {
			k, v := splitKV(kv)
			add(k, v)
		}
	}
	for _, kv := range overrides {
		k, v := splitKV(kv)
		add(k, v)
	}

	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, k+"="+merged[k])
	}
	return out
}
